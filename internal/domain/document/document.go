// Package document defines the document aggregate.
package document

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/geodocs/internal/domain"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
)

// dateRegex matches the YYYY-MM-DD date stamp. The date is stored and
// returned verbatim, never parsed as a calendar date.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Document is the document aggregate (immutable value object). The id is
// empty until the repository assigns one at insert.
type Document struct {
	id      string
	title   string
	author  string
	content string
	date    string
	coords  *geo.Coordinates
}

// New validates and creates a Document. Coordinates are attached only when
// BOTH latitude and longitude are supplied; a single coordinate is dropped.
func New(title, author, content, date string, lat, lon *float64) (Document, error) {
	if title == "" {
		return Document{}, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if author == "" {
		return Document{}, fmt.Errorf("author is required: %w", domain.ErrValidation)
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required: %w", domain.ErrValidation)
	}
	if !dateRegex.MatchString(date) {
		return Document{}, fmt.Errorf("date must be in YYYY-MM-DD form: %w", domain.ErrValidation)
	}

	var coords *geo.Coordinates
	if lat != nil && lon != nil {
		if !geo.ValidateCoordinates(*lat, *lon) {
			return Document{}, fmt.Errorf(
				"lat=%g lon=%g: %w", *lat, *lon, domain.ErrInvalidCoordinates,
			)
		}
		coords = &geo.Coordinates{Lat: *lat, Lon: *lon}
	}

	return Document{
		title:   title,
		author:  author,
		content: content,
		date:    date,
		coords:  coords,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, title, author, content, date string, coords *geo.Coordinates) Document {
	return Document{id: id, title: title, author: author, content: content, date: date, coords: coords}
}

// ID returns the store-assigned identifier (empty before insert).
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Author returns the document author.
func (d *Document) Author() string { return d.author }

// Content returns the document text content.
func (d *Document) Content() string { return d.content }

// Date returns the verbatim YYYY-MM-DD date stamp.
func (d *Document) Date() string { return d.date }

// Coordinates returns the document location, or nil when none was supplied.
func (d *Document) Coordinates() *geo.Coordinates { return d.coords }

// WithID returns a copy with the given identifier set.
func (d *Document) WithID(id string) Document {
	c := *d
	c.id = id
	return c
}
