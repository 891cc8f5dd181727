// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"movies-api/internal/app/service"
	"movies-api/pkg/locker"
)

const warmupLockKey = "warmup"

// Warmer refreshes cache targets. Implemented by service.CacheWarmer.
type Warmer interface {
	WarmAll(ctx context.Context) []service.WarmResult
}

// WarmupConfig holds warm-up scheduler configuration.
type WarmupConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// WarmupScheduler periodically refreshes hot cache entries. A distributed lock
// makes sure only one instance refreshes per interval.
type WarmupScheduler struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWarmupScheduler creates a new WarmupScheduler.
func NewWarmupScheduler(
	warmer Warmer,
	cfg WarmupConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *WarmupScheduler {
	return &WarmupScheduler{
		warmer:   warmer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start runs one warm-up immediately, then one per interval.
func (s *WarmupScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting cache warm-up scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run()
}

// Stop cancels a running warm-up and waits for the loop to exit.
func (s *WarmupScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping cache warm-up scheduler")
	s.cancel()
	s.wg.Wait()
}

func (s *WarmupScheduler) run() {
	defer s.wg.Done()

	s.execute()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute()
		}
	}
}

// execute refreshes all targets under the distributed lock.
//
// The lock TTL equals the interval: after a clean run the lock is kept as a
// cooldown so other instances skip this round; after a failure it is released
// so another instance can retry right away.
func (s *WarmupScheduler) execute() {
	acquired, err := s.locker.Acquire(s.ctx, warmupLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire warm-up lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming the cache, skipping")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	results := s.warmer.WarmAll(ctx)

	refreshed := 0
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		refreshed += r.Count
	}

	if failed > 0 {
		if err := s.locker.Release(s.ctx, warmupLockKey); err != nil {
			s.logger.Error("failed to release warm-up lock", zap.Error(err))
		}
		s.logger.Warn("cache warm-up completed with errors, lock released",
			zap.Int("entities_cached", refreshed),
			zap.Int("targets_failed", failed),
		)

		return
	}

	s.logger.Info("cache warm-up completed",
		zap.Int("entities_cached", refreshed),
		zap.Duration("cooldown", s.interval),
	)
}
