// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache drivers.
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Elastic ElasticConfig `mapstructure:"elastic"`
	Warmup  WarmupConfig  `mapstructure:"warmup"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"` // development, staging, production
	Port            int           `mapstructure:"port"`
	Debug           bool          `mapstructure:"debug"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the cache and the warm-up lock.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds read-through cache settings.
type CacheConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	Driver       string            `mapstructure:"driver"` // redis, memory
	TTL          time.Duration     `mapstructure:"ttl"`
	KeyPrefix    string            `mapstructure:"key_prefix"`
	WriteTimeout time.Duration     `mapstructure:"write_timeout"`
	Memory       MemoryCacheConfig `mapstructure:"memory"`
}

// MemoryCacheConfig holds in-process cache settings.
type MemoryCacheConfig struct {
	Capacity           int `mapstructure:"capacity"`
	NumShards          int `mapstructure:"num_shards"`
	EvictionPercentage int `mapstructure:"eviction_percentage"`
}

// ElasticConfig holds Elasticsearch settings.
type ElasticConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retry    RetryConfig   `mapstructure:"retry"`
	CB       CBConfig      `mapstructure:"circuit_breaker"`
	Indices  IndicesConfig `mapstructure:"indices"`
}

// IndicesConfig names the index of each entity kind.
type IndicesConfig struct {
	Films   string `mapstructure:"films"`
	Genres  string `mapstructure:"genres"`
	Persons string `mapstructure:"persons"`
}

// RetryConfig holds retry settings. Zero attempts disables retries.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// WarmupConfig holds cache warm-up job settings.
type WarmupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.port %d out of range", c.App.Port))
	}
	if c.Elastic.BaseURL == "" {
		errs = append(errs, errors.New("elastic.base_url is required"))
	}
	if c.Elastic.Indices.Films == "" || c.Elastic.Indices.Genres == "" || c.Elastic.Indices.Persons == "" {
		errs = append(errs, errors.New("elastic.indices must name every index"))
	}
	if c.Elastic.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("elastic.retry.max_attempts must not be negative"))
	}
	if r := c.Elastic.CB.FailureRatio; r <= 0 || r > 1 {
		errs = append(errs, fmt.Errorf("elastic.circuit_breaker.failure_ratio %v not in (0, 1]", r))
	}

	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case CacheDriverRedis, CacheDriverMemory:
		default:
			errs = append(errs, fmt.Errorf("cache.driver %q is not one of redis, memory", c.Cache.Driver))
		}
		if c.Cache.TTL <= 0 {
			errs = append(errs, errors.New("cache.ttl must be positive"))
		}
	}

	if c.Warmup.Enabled {
		if c.Warmup.Interval <= 0 {
			errs = append(errs, errors.New("warmup.interval must be positive"))
		}
		if c.Warmup.PageSize < 1 {
			errs = append(errs, errors.New("warmup.page_size must be at least 1"))
		}
		if c.Cache.Enabled && c.Warmup.Interval >= c.Cache.TTL {
			errs = append(errs, errors.New("warmup.interval must be shorter than cache.ttl"))
		}
	}

	return errors.Join(errs...)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "movies-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.shutdown_timeout", "10s")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "2s")
	v.SetDefault("redis.read_timeout", "1s")
	v.SetDefault("redis.write_timeout", "1s")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.driver", CacheDriverRedis)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.key_prefix", "movies-api")
	v.SetDefault("cache.write_timeout", "2s")
	v.SetDefault("cache.memory.capacity", 10000)
	v.SetDefault("cache.memory.num_shards", 10)
	v.SetDefault("cache.memory.eviction_percentage", 10)

	// Elasticsearch defaults
	v.SetDefault("elastic.base_url", "http://localhost:9200")
	v.SetDefault("elastic.username", "")
	v.SetDefault("elastic.password", "")
	v.SetDefault("elastic.timeout", "5s")
	v.SetDefault("elastic.retry.max_attempts", 0)
	v.SetDefault("elastic.retry.wait_time", "100ms")
	v.SetDefault("elastic.retry.max_wait_time", "1s")
	v.SetDefault("elastic.circuit_breaker.max_requests", 3)
	v.SetDefault("elastic.circuit_breaker.interval", "60s")
	v.SetDefault("elastic.circuit_breaker.timeout", "30s")
	v.SetDefault("elastic.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("elastic.indices.films", "movies")
	v.SetDefault("elastic.indices.genres", "genres")
	v.SetDefault("elastic.indices.persons", "persons")

	// Warm-up defaults
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.interval", "4m")
	v.SetDefault("warmup.timeout", "30s")
	v.SetDefault("warmup.page_size", 50)
}
