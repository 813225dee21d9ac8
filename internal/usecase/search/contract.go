package search

import (
	"context"

	"github.com/kailas-cloud/geodocs/internal/domain/geo"
	"github.com/kailas-cloud/geodocs/internal/domain/search/query"
	"github.com/kailas-cloud/geodocs/internal/domain/search/result"
)

// Repository defines the retrieval contract for documents.
type Repository interface {
	SearchText(ctx context.Context, q query.Text, offset, limit int) ([]result.Hit, error)
	SearchSubstring(ctx context.Context, q query.Substring, offset, limit int) ([]result.Hit, error)
	SearchNear(ctx context.Context, filter query.Query, center geo.Coordinates, k int) ([]result.Hit, error)
}
