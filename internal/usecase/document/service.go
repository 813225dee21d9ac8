// Package document implements the document write and read operations.
package document

import (
	"context"

	domdoc "github.com/kailas-cloud/geodocs/internal/domain/document"
	"github.com/kailas-cloud/geodocs/internal/metrics"
)

// Service handles document creation and retrieval.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the input, stores the document under a generated ID, and
// returns the stored representation read back from the store.
func (s *Service) Create(
	ctx context.Context, title, author, content, date string, lat, lon *float64,
) (domdoc.Document, error) {
	doc, err := domdoc.New(title, author, content, date, lat, lon)
	if err != nil {
		return domdoc.Document{}, err
	}

	stored, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return domdoc.Document{}, err
	}
	metrics.DocumentsCreatedTotal.Inc()
	return stored, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
