package db

import "github.com/kailas-cloud/geodocs/internal/domain/search/query"

// TextQuery is the input for a paginated full-text search.
type TextQuery struct {
	IndexName    string
	Query        query.Query
	Offset       int
	Limit        int
	ReturnFields []string
}

// KNNQuery is the input for vector proximity search. Filter narrows the
// candidate set before ranking; a nil Filter ranks every indexed document.
type KNNQuery struct {
	IndexName    string
	Filter       query.Query
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. For KNN queries Score
// carries the raw L2 distance between query and document vectors.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
