package document

import (
	"context"

	domdoc "github.com/kailas-cloud/geodocs/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Insert(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
}
