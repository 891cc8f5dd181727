// Package memory provides an in-process cache driver backed by sturdyc.
// It is meant for single-instance deployments and local development where
// running Redis is not worth it.
package memory

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

// Config holds the sturdyc sizing parameters.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	NumShards int

	// TTL applies to every entry; sturdyc has no per-entry expiry.
	TTL time.Duration

	// EvictionPercentage is the share of entries evicted when capacity is reached (1-100).
	EvictionPercentage int
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "memory cache config: " + e.Field + " " + e.Message
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// Cache implements domain.Cache in process memory.
type Cache struct {
	client *sturdyc.Client[[]byte]
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a sturdyc-backed cache.
func NewCache(cfg Config, logger *zap.Logger) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		client: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Get retrieves a value by key. Returns nil, nil if not found or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := c.client.Get(key)
	if !ok {
		return nil, nil
	}

	return data, nil
}

// Set stores a value. Entries always live for the configured TTL; a different
// ttl argument is logged and ignored.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl != c.ttl {
		c.logger.Debug("memory cache ignores per-entry ttl",
			zap.String("key", key),
			zap.Duration("requested", ttl),
			zap.Duration("effective", c.ttl),
		)
	}

	c.client.Set(key, value)

	return nil
}

// Ping always succeeds for an in-process cache.
func (c *Cache) Ping(_ context.Context) error {
	return nil
}

// Size returns the number of entries currently held.
func (c *Cache) Size() int {
	return c.client.Size()
}
