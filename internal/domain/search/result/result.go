// Package result defines the normalized search output shapes.
package result

import (
	"github.com/kailas-cloud/geodocs/internal/domain/document"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
)

// Hit is one normalized document view. Whatever location representation the
// store held, coordinates surface here as flattened scalars; the distance
// annotation exists only for geo-ranked hits.
type Hit struct {
	id       string
	title    string
	author   string
	content  string
	date     string
	coords   *geo.Coordinates
	distance *float64
}

// New creates a hit without a distance annotation.
func New(id, title, author, content, date string, coords *geo.Coordinates) Hit {
	return Hit{id: id, title: title, author: author, content: content, date: date, coords: coords}
}

// FromDocument projects a document into its normalized view.
func FromDocument(d *document.Document) Hit {
	return New(d.ID(), d.Title(), d.Author(), d.Content(), d.Date(), d.Coordinates())
}

// WithDistance returns a copy annotated with a distance in meters.
func (h Hit) WithDistance(meters float64) Hit {
	h.distance = &meters
	return h
}

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Title returns the document title.
func (h *Hit) Title() string { return h.title }

// Author returns the document author.
func (h *Hit) Author() string { return h.author }

// Content returns the document content.
func (h *Hit) Content() string { return h.content }

// Date returns the verbatim date stamp.
func (h *Hit) Date() string { return h.date }

// Coordinates returns the flattened location, or nil when the document has none.
func (h *Hit) Coordinates() *geo.Coordinates { return h.coords }

// DistanceMeters returns the geo-ranking distance, or nil when the search had
// no geo filter. Nil means "no geo query", not "zero distance".
func (h *Hit) DistanceMeters() *float64 { return h.distance }

// Page is the pagination envelope around an ordered sequence of hits.
type Page struct {
	page  int
	limit int
	hits  []Hit
}

// NewPage wraps hits in a pagination envelope.
func NewPage(page, limit int, hits []Hit) Page {
	return Page{page: page, limit: limit, hits: hits}
}

// PageNumber returns the 1-based page number.
func (p *Page) PageNumber() int { return p.page }

// Limit returns the page size.
func (p *Page) Limit() int { return p.limit }

// Hits returns the ordered hits; never longer than the limit.
func (p *Page) Hits() []Hit { return p.hits }
