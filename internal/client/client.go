// Package client defines the search backend contract. Implementations may
// use Elasticsearch, in-memory storage, or other backends.
package client

import (
	"context"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
)

// BulkDocument pairs a document with the identifier it is indexed under.
type BulkDocument struct {
	ID       string
	Document any
}

// Response is the outcome of one executed query.
type Response struct {
	Total        int64
	Hits         []document.Hit
	Aggregations map[string]any
}

// SearchClient indexes documents and executes pre-assembled queries.
type SearchClient interface {
	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error

	// EnsureIndex creates the index with the product mapping if it does
	// not exist yet.
	EnsureIndex(ctx context.Context, index string) error

	// IndexDocument adds or updates a single document.
	IndexDocument(ctx context.Context, index, id string, doc any) error

	// BulkIndex adds or updates multiple documents in one request.
	BulkIndex(ctx context.Context, index string, docs []BulkDocument) error

	// Delete removes a document by its identifier. Deleting a document
	// that does not exist is not an error.
	Delete(ctx context.Context, index, id string) error

	// DeleteIndex removes the entire index. A missing index is not an
	// error.
	DeleteIndex(ctx context.Context, index string) error

	// Search executes the query against the given indexes.
	Search(ctx context.Context, indexes []string, query *document.Query) (*Response, error)
}
