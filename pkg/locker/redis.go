package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync (Redlock) on the cache's
// Redis deployment. Lock keys are namespaced so they never clash with cache keys.
type RedisLocker struct {
	rs        *redsync.Redsync
	namespace string
	logger    *zap.Logger

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// NewRedisLocker creates a locker. namespace is prepended to every lock key
// as "<namespace>:lock:<key>"; an empty namespace leaves keys as "lock:<key>".
func NewRedisLocker(client redis.UniversalClient, namespace string, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		namespace: namespace,
		logger:    logger,
		mutexes:   make(map[string]*redsync.Mutex),
	}
}

// Acquire takes the lock without retrying.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	name := r.name(key)
	mutex := r.rs.NewMutex(name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			r.logger.Debug("lock held by another instance", zap.String("key", name))

			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired", zap.String("key", name), zap.Duration("ttl", ttl))

	return true, nil
}

// Release unlocks a lock taken by this locker. Redsync checks the lock token, so
// a lock that expired and was taken by another instance is left alone.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, ok := r.mutexes[key]
	delete(r.mutexes, key)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	released, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", mutex.Name(), err)
	}
	if !released {
		r.logger.Debug("lock already expired", zap.String("key", mutex.Name()))
	}

	return nil
}

func (r *RedisLocker) name(key string) string {
	if r.namespace == "" {
		return "lock:" + key
	}

	return r.namespace + ":lock:" + key
}

// isTaken reports whether err means the lock is held elsewhere. Redsync reports
// contention either as ErrFailed or as a (possibly aggregated) ErrTaken.
func isTaken(err error) bool {
	var taken *redsync.ErrTaken
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
		return true
	}

	return strings.Contains(err.Error(), "lock already taken")
}
