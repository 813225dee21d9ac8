// Package request defines the validated search request.
package request

import (
	"fmt"

	"github.com/kailas-cloud/geodocs/internal/domain"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
)

// Request is a validated search request. At least one of keyword or phrase is
// present; the geo center is optional and orthogonal.
type Request struct {
	keyword string
	phrase  string
	center  *geo.Coordinates
	page    int
	limit   int
}

// New validates and normalizes search parameters. Defaults: page=1, limit=20;
// limit is clamped to [1,200]. A geo center is attached only when both
// coordinates are supplied and in range.
func New(keyword, phrase string, lat, lon *float64, page, limit int) (Request, error) {
	if keyword == "" && phrase == "" {
		return Request{}, domain.ErrMissingQuery
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var center *geo.Coordinates
	if lat != nil && lon != nil {
		if !geo.ValidateCoordinates(*lat, *lon) {
			return Request{}, fmt.Errorf(
				"lat=%g lon=%g: %w", *lat, *lon, domain.ErrInvalidCoordinates,
			)
		}
		center = &geo.Coordinates{Lat: *lat, Lon: *lon}
	}

	return Request{
		keyword: keyword,
		phrase:  phrase,
		center:  center,
		page:    page,
		limit:   limit,
	}, nil
}

// Keyword returns the raw keyword parameter ("" when absent).
func (r *Request) Keyword() string { return r.keyword }

// Phrase returns the raw phrase parameter ("" when absent).
func (r *Request) Phrase() string { return r.phrase }

// Center returns the geo filter center, or nil for non-geo searches.
func (r *Request) Center() *geo.Coordinates { return r.center }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Skip returns the offset implied by page and limit.
func (r *Request) Skip() int { return (r.page - 1) * r.limit }

// TextSource returns the input for the text-query builder: the phrase when
// given, else the keyword. Both share the same phrase-aware builder.
func (r *Request) TextSource() string {
	if r.phrase != "" {
		return r.phrase
	}
	return r.keyword
}

// FallbackTerm returns the input for the substring fallback: the keyword when
// given, else the phrase.
func (r *Request) FallbackTerm() string {
	if r.keyword != "" {
		return r.keyword
	}
	return r.phrase
}
