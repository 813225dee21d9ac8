// Package search orchestrates the retrieval strategies: geo proximity with a
// text pre-filter, indexed text search, and the literal substring fallback.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodocs/internal/domain"
	"github.com/kailas-cloud/geodocs/internal/domain/search/query"
	"github.com/kailas-cloud/geodocs/internal/domain/search/request"
	"github.com/kailas-cloud/geodocs/internal/domain/search/result"
	"github.com/kailas-cloud/geodocs/internal/logger"
	"github.com/kailas-cloud/geodocs/internal/metrics"
)

// Service runs searches against the document repository.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search picks a strategy from the request. A geo center switches to
// proximity ranking with the text query as pre-filter; otherwise the text
// query runs alone, falling back to substring matching when the text builder
// rejects the input.
//
// Proximity search fetches limit+skip nearest candidates and pages them
// client-side, since KNN ordering is only stable from the top.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	textQ, textErr := query.BuildText(req.TextSource())
	if textErr != nil {
		logger.FromContext(ctx).Debug("text query rejected, using substring fallback",
			zap.Error(textErr),
			zap.String("fallback_term", req.FallbackTerm()),
		)
	}

	var hits []result.Hit
	var err error
	var strategy string
	start := time.Now()

	switch {
	case req.Center() != nil:
		strategy = "geo"
		var filter query.Query
		if textErr == nil {
			filter = textQ
		} else {
			filter = query.BuildSubstring(req.FallbackTerm())
		}
		k := req.Limit() + req.Skip()
		hits, err = s.repo.SearchNear(ctx, filter, *req.Center(), k)
		if err == nil {
			hits = paginate(hits, req.Skip(), req.Limit())
		}

	case textErr == nil:
		strategy = "text"
		hits, err = s.repo.SearchText(ctx, textQ, req.Skip(), req.Limit())

	default:
		strategy = "substring"
		hits, err = s.repo.SearchSubstring(ctx, query.BuildSubstring(req.FallbackTerm()), req.Skip(), req.Limit())
	}

	metrics.SearchRequestDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(strategy, "error").Inc()
		return result.Page{}, fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(strategy, "ok").Inc()
	return result.NewPage(req.Page(), req.Limit(), hits), nil
}

// paginate applies skip and limit to an already ordered candidate list.
func paginate(hits []result.Hit, skip, limit int) []result.Hit {
	if skip >= len(hits) {
		return nil
	}
	hits = hits[skip:]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
