// Package document persists documents as JSON values in the store.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/geodocs/internal/db"
	"github.com/kailas-cloud/geodocs/internal/domain"
	domdoc "github.com/kailas-cloud/geodocs/internal/domain/document"
	"github.com/kailas-cloud/geodocs/internal/domain/geo"
)

// store is the consumer interface for document persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert stores a document under a fresh UUID and reads it back, so the
// caller receives exactly what the store now holds.
func (r *Repo) Insert(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	id := uuid.NewString()
	stored := doc.WithID(id)

	sd, err := buildStoredDocument(&stored)
	if err != nil {
		return domdoc.Document{}, err
	}
	data, err := json.Marshal(sd)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("marshal document: %w", err)
	}

	key := DocKey(id)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return domdoc.Document{}, fmt.Errorf("json.set %s: %w", key, err)
	}

	readBack, err := r.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %s: %w", domain.ErrReadBack, key, err)
	}
	return readBack, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := DocKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	sd, err := parseStored(raw)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return sd.toDocument(id), nil
}

// Delete removes a document by ID. The index drops the document with the key.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := DocKey(id)
	found, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("exists %s: %w", key, err)
	}
	if !found {
		return domain.ErrDocumentNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DocKey returns the store key for a document ID.
func DocKey(id string) string {
	return domain.KeyPrefix + "docs:" + id
}

// IndexName returns the FT index covering document keys.
func IndexName() string {
	return domain.KeyPrefix + "docs:idx"
}

// Index returns the FT index definition the search operations rely on. The
// text fields carry suffix tries for infix wildcard fallback; the geo field
// ranks unit-sphere vectors by L2 distance.
func Index() *db.IndexDefinition {
	return db.NewIndex(IndexName()).
		OnJSON().
		Prefix(domain.KeyPrefix + "docs:").
		TextWithSuffixTrie("$.title", "title").
		TextWithSuffixTrie("$.content", "content").
		TextWithSuffixTrie("$.author", "author").
		VectorFlat("$.geo", "geo", geo.VectorDim, db.DistanceL2, 0).
		MustBuild()
}
