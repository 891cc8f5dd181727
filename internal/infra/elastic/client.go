// Package elastic implements the search client over the Elasticsearch REST API.
package elastic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// ClientConfig holds configuration for the Elasticsearch client.
type ClientConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Retry    RetryConfig
	CB       CBConfig
}

// RetryConfig holds transport retry configuration. MaxAttempts 0 disables retries.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client sends requests to Elasticsearch through a circuit breaker.
// It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new Elasticsearch client.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		http:   NewRestyClient(cfg),
		cb:     NewCircuitBreaker("elasticsearch", cfg.CB, logger),
		logger: logger,
	}
}

// NewRestyClient creates a new Resty HTTP client with retry configuration.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	if cfg.Username != "" {
		client.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return client
}

// NewCircuitBreaker creates a new circuit breaker for a backend.
// Caller cancellations do not count as backend failures.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// do executes one request. A nil response with a nil error means the target does
// not exist (HTTP 404). Transport failures, 5xx answers and an open circuit are
// wrapped in domain.ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}

		r, err := req.Execute(method, path)
		if err != nil {
			return nil, err
		}
		if r.StatusCode() >= 500 {
			return nil, fmt.Errorf("elasticsearch returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("elasticsearch request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s %s: elasticsearch rejected request with status %d: %s",
			method, path, resp.StatusCode(), truncate(resp.String(), 256))
	}

	return resp, nil
}

// Ping verifies the cluster is reachable. It bypasses the circuit breaker so that
// readiness reflects the real backend state.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: ping returned status %d", domain.ErrBackendUnavailable, resp.StatusCode())
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
