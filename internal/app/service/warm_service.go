package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// WarmTarget is one listing page kept hot in the cache.
type WarmTarget struct {
	Name    string
	Refresh func(ctx context.Context) (int, error)
}

// FilmListingTarget refreshes the first page of the default film listing.
func FilmListingTarget(films *ReadThrough[domain.Film], pageSize int) WarmTarget {
	page := domain.Page{Size: pageSize, Number: 1}
	sort := domain.ParseSort(DefaultFilmSort)

	return WarmTarget{
		Name: "films",
		Refresh: func(ctx context.Context) (int, error) {
			return films.RefreshList(ctx, "", sort, page)
		},
	}
}

// GenreListingTarget refreshes the first page of the genre listing.
func GenreListingTarget(genres *ReadThrough[domain.Genre], pageSize int) WarmTarget {
	page := domain.Page{Size: pageSize, Number: 1}

	return WarmTarget{
		Name: "genres",
		Refresh: func(ctx context.Context) (int, error) {
			return genres.RefreshList(ctx, "", domain.Sort{}, page)
		},
	}
}

// CacheWarmer refreshes hot listing pages so they do not expire under load.
type CacheWarmer struct {
	targets []WarmTarget
	logger  *zap.Logger
}

// NewCacheWarmer creates a new CacheWarmer.
func NewCacheWarmer(targets []WarmTarget, logger *zap.Logger) *CacheWarmer {
	return &CacheWarmer{
		targets: targets,
		logger:  logger,
	}
}

// WarmResult holds the result of refreshing one target.
type WarmResult struct {
	Target   string
	Count    int
	Duration time.Duration
	Error    error
}

// WarmAll refreshes all targets concurrently.
// Returns results for each target. Partial failures are allowed.
func (w *CacheWarmer) WarmAll(ctx context.Context) []WarmResult {
	results := make([]WarmResult, len(w.targets))
	var wg sync.WaitGroup

	w.logger.Debug("warming cache", zap.Int("target_count", len(w.targets)))

	for i, target := range w.targets {
		wg.Add(1)
		go func(idx int, t WarmTarget) {
			defer wg.Done()
			results[idx] = w.warm(ctx, t)
		}(i, target)
	}

	wg.Wait()

	return results
}

// Warm refreshes a single target by name. Returns nil, nil for an unknown name.
func (w *CacheWarmer) Warm(ctx context.Context, name string) (*WarmResult, error) {
	for _, t := range w.targets {
		if t.Name == name {
			result := w.warm(ctx, t)
			return &result, result.Error
		}
	}
	return nil, nil
}

// TargetNames returns the names of all targets.
func (w *CacheWarmer) TargetNames() []string {
	names := make([]string, len(w.targets))
	for i, t := range w.targets {
		names[i] = t.Name
	}
	return names
}

func (w *CacheWarmer) warm(ctx context.Context, t WarmTarget) WarmResult {
	start := time.Now()
	count, err := t.Refresh(ctx)
	result := WarmResult{
		Target:   t.Name,
		Count:    count,
		Duration: time.Since(start),
		Error:    err,
	}

	if err != nil {
		w.logger.Warn("cache warm-up failed",
			zap.String("target", t.Name),
			zap.Error(err),
		)
		return result
	}

	w.logger.Debug("cache target refreshed",
		zap.String("target", t.Name),
		zap.Int("count", count),
		zap.Duration("duration", result.Duration),
	)

	return result
}
