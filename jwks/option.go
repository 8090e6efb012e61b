package jwks

import (
	"errors"
	"net/http"
	"time"
)

// Option configures a Cache.
type Option func(*Cache) error

// WithHTTPClient sets the client used for discovery and key-set requests.
// If not specified, a client with a 30s timeout is used. A client without a
// timeout can hang a request indefinitely, so one is required.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		if client.Timeout <= 0 {
			return errors.New("HTTP client must have a timeout")
		}
		c.httpClient = client
		return nil
	}
}

// WithLifetime overrides how long a fetched key set is trusted.
// Default: one hour.
func WithLifetime(lifetime time.Duration) Option {
	return func(c *Cache) error {
		if lifetime <= 0 {
			return errors.New("lifetime must be positive")
		}
		c.lifetime = lifetime
		return nil
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets an optional logger.
func WithLogger(logger Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics reports refresh outcomes to m.
func WithMetrics(m Metrics) Option {
	return func(c *Cache) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		c.metrics = m
		return nil
	}
}
