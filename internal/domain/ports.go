package domain

import (
	"context"
	"time"
)

// SearchIndex is the read contract of one search index holding entities of type T.
// Implementations: internal/infra/elastic/index.go
//
// Absence is never an error: a missing document yields (nil, nil) and a query with
// no match yields an empty slice. Transport failures wrap ErrBackendUnavailable.
type SearchIndex[T any] interface {
	// GetByID fetches a single document.
	GetByID(ctx context.Context, id string) (*T, error)

	// Search runs a fuzzy match on the index's designated text field.
	Search(ctx context.Context, q TextQuery) ([]T, error)

	// List returns a sorted, paged listing, optionally filtered by category.
	List(ctx context.Context, q ListQuery) ([]T, error)

	// GetByIDs fetches a batch of documents in one round trip, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]T, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go, internal/infra/memory/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil, nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping verifies the cache backend is reachable.
	Ping(ctx context.Context) error
}
