// Package domain holds shared sentinel errors and store naming constants.
package domain

import "errors"

var (
	// ErrValidation signals a document that fails field validation.
	ErrValidation = errors.New("validation failed")
	// ErrMissingQuery signals a search request with neither keyword nor phrase.
	ErrMissingQuery = errors.New("keyword or phrase is required")
	// ErrInvalidCoordinates signals an out-of-range latitude or longitude.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrReadBack signals that a document could not be read back after insert.
	ErrReadBack = errors.New("document read-back after insert failed")
	// ErrQueryFailed signals a store failure during search execution.
	ErrQueryFailed = errors.New("query failed")
)

// KeyPrefix namespaces all geodocs keys and index names in the store.
const KeyPrefix = "geodocs:"
