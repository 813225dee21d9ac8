// Package search runs the retrieval strategies against the document index.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geodocs/internal/db"
	"github.com/kailas-cloud/geodocs/internal/domain"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
	"github.com/kailas-cloud/geodocs/internal/domain/search/query"
	"github.com/kailas-cloud/geodocs/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchText returns a relevance-ranked page of text matches.
func (r *Repo) SearchText(ctx context.Context, q query.Text, offset, limit int) ([]result.Hit, error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    indexName(),
		Query:        q,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	return parseHits(sr), nil
}

// substringCandidateFactor sizes the candidate fetch for substring search.
// The index query recalls per-token wildcard matches, a superset of the
// literal matches; extra candidates absorb the ones the filter drops.
const substringCandidateFactor = 4

// SearchSubstring returns a page of literal substring matches. The index
// answers with wildcard candidates; only hits where the term occurs
// literally in a searchable field survive, so pagination runs client-side
// over the filtered sequence.
func (r *Repo) SearchSubstring(ctx context.Context, q query.Substring, offset, limit int) ([]result.Hit, error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    indexName(),
		Query:        q,
		Offset:       0,
		Limit:        (offset + limit) * substringCandidateFactor,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("search substring: %w", err)
	}

	matched := make([]result.Hit, 0, limit)
	for _, hit := range parseHits(sr) {
		if q.Matches(hit.Title()) || q.Matches(hit.Content()) || q.Matches(hit.Author()) {
			matched = append(matched, hit)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// SearchNear returns the k documents closest to center, nearest first, each
// annotated with its great-circle distance in meters. A non-nil filter
// restricts the candidate set before ranking.
func (r *Repo) SearchNear(ctx context.Context, filter query.Query, center geo.Coordinates, k int) ([]result.Hit, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		Filter:       filter,
		Vector:       geo.ToVector(center.Lat, center.Lon),
		K:            k,
		ReturnFields: []string{"$", "__geo_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("search near: %w", err)
	}

	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, docPrefix())
		hit, err := parseEntry(id, entry.Fields["$"])
		if err != nil {
			continue
		}
		hits = append(hits, hit.WithDistance(geo.L2ToMeters(entry.Score)))
	}
	return hits, nil
}

func indexName() string {
	return domain.KeyPrefix + "docs:idx"
}

func docPrefix() string {
	return domain.KeyPrefix + "docs:"
}

// parseHits converts store entries into normalized hits, dropping entries
// whose payload cannot be decoded.
func parseHits(sr *db.SearchResult) []result.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, docPrefix())
		hit, err := parseEntry(id, entry.Fields["$"])
		if err != nil {
			continue
		}
		hits = append(hits, hit)
	}
	return hits
}
