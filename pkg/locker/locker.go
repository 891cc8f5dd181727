// Package locker coordinates periodic jobs across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker grants a named lock to at most one instance at a time.
// Implementations must be safe for concurrent use.
//
//	acquired, err := l.Acquire(ctx, "warmup", interval)
//	if err != nil || !acquired {
//	    return
//	}
//	// work; keep the lock as a cooldown or Release it to let another instance retry
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, nil when another
	// instance holds it. The lock expires after ttl unless released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock held by this instance. Releasing a lock this
	// instance does not hold is a no-op.
	Release(ctx context.Context, key string) error
}
