// Package service provides application use cases.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"movies-api/internal/cachekey"
	"movies-api/internal/domain"
	"movies-api/internal/metrics"
)

// Defaults applied when CacheOptions leaves a value zero.
const (
	DefaultTTL          = 5 * time.Minute
	DefaultWriteTimeout = 2 * time.Second
)

// Payload tags. A key of shape entity holds an entity payload, every other shape
// holds a list payload.
const (
	payloadEntity = "entity"
	payloadList   = "list"
)

// envelope is the cached representation of a read result.
type envelope struct {
	Shape string          `json:"shape"`
	Data  json.RawMessage `json:"data"`
}

// CacheOptions controls how read results are cached.
type CacheOptions struct {
	TTL          time.Duration
	WriteTimeout time.Duration
}

type validatable interface {
	Validate() error
}

// ReadThrough serves reads of one entity kind from the cache, falling back to the
// search index on a miss and populating the cache in the background.
//
// Cache faults never fail a read: a failing Get is a miss, a failing Set is logged
// and counted. Search errors are returned as they are. Empty results are not cached.
type ReadThrough[T any] struct {
	kind    string
	index   domain.SearchIndex[T]
	cache   domain.Cache
	opts    CacheOptions
	metrics *metrics.Metrics
	logger  *zap.Logger

	pending sync.WaitGroup
}

// NewReadThrough creates a read-through service. A nil cache disables caching.
func NewReadThrough[T any](
	kind string,
	index domain.SearchIndex[T],
	cache domain.Cache,
	opts CacheOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReadThrough[T] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if m == nil {
		m = metrics.NewNop()
	}

	return &ReadThrough[T]{
		kind:    kind,
		index:   index,
		cache:   cache,
		opts:    opts,
		metrics: m,
		logger:  logger.With(zap.String("kind", kind)),
	}
}

// Kind returns the entity kind, e.g. "film".
func (r *ReadThrough[T]) Kind() string {
	return r.kind
}

// GetByID returns one entity, or nil when it does not exist.
func (r *ReadThrough[T]) GetByID(ctx context.Context, id string) (*T, error) {
	key := cachekey.ForID(id)

	var cached T
	if r.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	v, err := r.index.GetByID(ctx, id)
	r.observe(key, start, v != nil, err)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", r.kind, id, err)
	}
	if v == nil {
		return nil, nil
	}

	r.storeAsync(ctx, key, v)

	return v, nil
}

// Search returns one page of a fuzzy full-text query.
func (r *ReadThrough[T]) Search(ctx context.Context, query string, page domain.Page) ([]T, error) {
	key := cachekey.ForQuery(query, page.Size, page.Number)

	return r.many(ctx, key, func(ctx context.Context) ([]T, error) {
		return r.index.Search(ctx, domain.TextQuery{Text: query, Page: page})
	})
}

// List returns one page of a listing, filtered by categoryID when it is not empty.
func (r *ReadThrough[T]) List(ctx context.Context, categoryID string, sort domain.Sort, page domain.Page) ([]T, error) {
	key := cachekey.ForListing(categoryID, sort.String(), page.Size, page.Number)

	return r.many(ctx, key, listFetcher(r.index, categoryID, sort, page))
}

// GetByIDs returns the entities with the given ids, in id order. Ids without an
// entity are skipped. An empty id set yields an empty result without any lookup.
func (r *ReadThrough[T]) GetByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	return r.many(ctx, cachekey.ForIDs(ids), func(ctx context.Context) ([]T, error) {
		return r.index.GetByIDs(ctx, ids)
	})
}

// RefreshList fetches a listing page from search and overwrites its cache entry
// whether or not one exists. It writes synchronously and returns the number of
// entities cached. Nothing is evicted when the listing is empty.
func (r *ReadThrough[T]) RefreshList(ctx context.Context, categoryID string, sort domain.Sort, page domain.Page) (int, error) {
	key := cachekey.ForListing(categoryID, sort.String(), page.Size, page.Number)

	start := time.Now()
	items, err := listFetcher(r.index, categoryID, sort, page)(ctx)
	r.observe(key, start, len(items) > 0, err)
	if err != nil {
		return 0, fmt.Errorf("refresh %s %s: %w", r.kind, key, err)
	}
	if len(items) == 0 || r.cache == nil {
		return 0, nil
	}

	raw, err := r.encode(key, items)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Set(ctx, key.Scoped(r.kind), raw, r.opts.TTL); err != nil {
		r.metrics.CacheErrors.WithLabelValues(r.kind, "set").Inc()

		return 0, fmt.Errorf("refresh %s %s: %w", r.kind, key, err)
	}

	return len(items), nil
}

// Wait blocks until all background cache writes have finished.
func (r *ReadThrough[T]) Wait() {
	r.pending.Wait()
}

func listFetcher[T any](index domain.SearchIndex[T], categoryID string, sort domain.Sort, page domain.Page) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		return index.List(ctx, domain.ListQuery{CategoryID: categoryID, Sort: sort, Page: page})
	}
}

// many runs the read-through cycle for a list-shaped key.
func (r *ReadThrough[T]) many(ctx context.Context, key cachekey.Key, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if r.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	items, err := fetch(ctx)
	r.observe(key, start, len(items) > 0, err)
	if err != nil {
		return nil, fmt.Errorf("%s %s %q: %w", key.Shape, r.kind, key, err)
	}
	if len(items) == 0 {
		return []T{}, nil
	}

	r.storeAsync(ctx, key, items)

	return items, nil
}

// fromCache decodes the entry under key into dst. It reports false on a miss,
// on a cache fault and on any payload that does not decode to a valid value.
func (r *ReadThrough[T]) fromCache(ctx context.Context, key cachekey.Key, dst any) bool {
	if r.cache == nil {
		return false
	}

	raw, err := r.cache.Get(ctx, key.Scoped(r.kind))
	if err != nil {
		r.metrics.CacheErrors.WithLabelValues(r.kind, "get").Inc()
		r.logger.Warn("cache read failed, falling back to search",
			zap.Stringer("key", key),
			zap.Error(err),
		)
	}
	if raw == nil {
		r.metrics.CacheMisses.WithLabelValues(r.kind).Inc()

		return false
	}

	if err := r.decode(key, raw, dst); err != nil {
		r.metrics.CacheErrors.WithLabelValues(r.kind, "decode").Inc()
		r.metrics.CacheMisses.WithLabelValues(r.kind).Inc()
		r.logger.Warn("discarding unreadable cache entry",
			zap.Stringer("key", key),
			zap.Error(err),
		)

		return false
	}

	r.metrics.CacheHits.WithLabelValues(r.kind).Inc()

	return true
}

func (r *ReadThrough[T]) decode(key cachekey.Key, raw []byte, dst any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}
	if want := payloadShape(key); env.Shape != want {
		return fmt.Errorf("payload tagged %q, key expects %q", env.Shape, want)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("empty %s payload", env.Shape)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decoding %s payload: %w", env.Shape, err)
	}

	switch v := dst.(type) {
	case *T:
		return validate(v)
	case *[]T:
		for i := range *v {
			if err := validate(&(*v)[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func validate(v any) error {
	if val, ok := v.(validatable); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
		}
	}

	return nil
}

func (r *ReadThrough[T]) encode(key cachekey.Key, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		r.metrics.CacheErrors.WithLabelValues(r.kind, "encode").Inc()

		return nil, fmt.Errorf("encoding %s payload: %w", r.kind, err)
	}

	return json.Marshal(envelope{Shape: payloadShape(key), Data: data})
}

// storeAsync writes value under key in the background, on a context detached from
// the request and bounded by the write timeout.
func (r *ReadThrough[T]) storeAsync(ctx context.Context, key cachekey.Key, value any) {
	if r.cache == nil {
		return
	}

	raw, err := r.encode(key, value)
	if err != nil {
		r.logger.Error("cache encode failed", zap.Stringer("key", key), zap.Error(err))

		return
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.WriteTimeout)
		defer cancel()

		if err := r.cache.Set(writeCtx, key.Scoped(r.kind), raw, r.opts.TTL); err != nil {
			r.metrics.CacheErrors.WithLabelValues(r.kind, "set").Inc()
			r.logger.Warn("cache write failed",
				zap.Stringer("key", key),
				zap.Error(err),
			)
		}
	}()
}

func (r *ReadThrough[T]) observe(key cachekey.Key, start time.Time, found bool, err error) {
	op := string(key.Shape)
	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case !found:
		outcome = "empty"
	}

	r.metrics.SearchRequests.WithLabelValues(r.kind, op, outcome).Inc()
	r.metrics.SearchDuration.WithLabelValues(r.kind, op).Observe(time.Since(start).Seconds())
}

func payloadShape(key cachekey.Key) string {
	if key.IsList() {
		return payloadList
	}

	return payloadEntity
}
