package service

import (
	"context"
	"sync"
	"time"

	"movies-api/internal/domain"
)

// fakeIndex serves fixtures and counts calls per operation.
type fakeIndex[T any] struct {
	mu     sync.Mutex
	byID   map[string]T
	search []T
	list   func(q domain.ListQuery) []T
	err    error
	calls  map[string]int
}

func newFakeIndex[T any]() *fakeIndex[T] {
	return &fakeIndex[T]{
		byID:  make(map[string]T),
		calls: make(map[string]int),
	}
}

func (f *fakeIndex[T]) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *fakeIndex[T]) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	return f.err
}

func (f *fakeIndex[T]) GetByID(_ context.Context, id string) (*T, error) {
	if err := f.record("get"); err != nil {
		return nil, err
	}
	v, ok := f.byID[id]
	if !ok {
		return nil, nil
	}

	return &v, nil
}

func (f *fakeIndex[T]) Search(_ context.Context, _ domain.TextQuery) ([]T, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}

	return append([]T{}, f.search...), nil
}

func (f *fakeIndex[T]) List(_ context.Context, q domain.ListQuery) ([]T, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	if f.list == nil {
		return []T{}, nil
	}

	return f.list(q), nil
}

func (f *fakeIndex[T]) GetByIDs(_ context.Context, ids []string) ([]T, error) {
	if err := f.record("ids"); err != nil {
		return nil, err
	}
	result := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := f.byID[id]; ok {
			result = append(result, v)
		}
	}

	return result, nil
}

// fakeCache is a map-backed domain.Cache with injectable faults.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}

	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl

	return nil
}

func (c *fakeCache) Ping(context.Context) error {
	return nil
}

func (c *fakeCache) raw(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.data[key]
}

func (c *fakeCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.data)
}
