package jwks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"golang.org/x/sync/singleflight"

	"github.com/portalinsights/aadauth/internal/oidc"
)

const (
	// DefaultLifetime is how long a fetched key set is trusted.
	DefaultLifetime = time.Hour

	// DefaultFetchTimeout bounds each outbound request made by the default client.
	DefaultFetchTimeout = 30 * time.Second

	// maxKeySetSize limits the JWKS response body. Real key sets are a few KB.
	maxKeySetSize = 1 << 20

	refreshKey = "jwks"
)

// ErrFetchFailed is wrapped by every error GetKeySet returns. It means the
// provider's keys could not be obtained and no key set may be used.
var ErrFetchFailed = errors.New("could not fetch JWKS")

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Metrics receives refresh outcomes.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// RefreshCounter is the counter incremented once per network refresh, tagged
// with result "success" or "failure".
const RefreshCounter = "aadauth_jwks_refresh_total"

// RefreshDuration is the histogram of refresh latency in seconds.
const RefreshDuration = "aadauth_jwks_refresh_duration_seconds"

// Cache holds the provider's current signing keys and refreshes them from
// the OIDC discovery document once they expire.
//
// Readers never block each other. A refresh publishes a new *KeySet with a
// single atomic store, so keys and expiry are always observed together.
// Concurrent callers that find the cache stale share one in-flight refresh.
type Cache struct {
	discoveryURL string
	httpClient   *http.Client
	lifetime     time.Duration
	now          func() time.Time
	logger       Logger
	metrics      Metrics

	current atomic.Pointer[KeySet]
	group   singleflight.Group
}

// New builds a Cache for the provider whose discovery document lives at
// discoveryURL. Nothing is fetched until the first GetKeySet call.
//
// Example:
//
//	cache, err := jwks.New(cfg.DiscoveryURL(),
//	    jwks.WithLogger(logger),
//	)
func New(discoveryURL string, opts ...Option) (*Cache, error) {
	if discoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	c := &Cache{
		discoveryURL: discoveryURL,
		httpClient:   &http.Client{Timeout: DefaultFetchTimeout},
		lifetime:     DefaultLifetime,
		now:          time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return c, nil
}

// GetKeySet returns the cached key set while it is fresh. Otherwise it
// refreshes from the provider. A failed refresh is reported as ErrFetchFailed
// and the stale set is never returned in its place.
//
// If ctx ends while waiting on a shared refresh, GetKeySet returns early; the
// refresh itself keeps running for the other waiters.
func (c *Cache) GetKeySet(ctx context.Context) (*KeySet, error) {
	if ks := c.current.Load(); ks != nil && ks.ValidAt(c.now()) {
		if c.logger != nil {
			c.logger.Debug("using cached JWKS", "expires_at", ks.ExpiresAt())
		}
		return ks, nil
	}

	result := c.group.DoChan(refreshKey, func() (any, error) {
		// Another caller may have published a fresh set while we queued.
		if ks := c.current.Load(); ks != nil && ks.ValidAt(c.now()) {
			return ks, nil
		}
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	}
}

// Current returns the last published key set without refreshing, or nil if
// none was ever fetched. The returned set may be stale.
func (c *Cache) Current() *KeySet {
	return c.current.Load()
}

// refresh fetches the discovery document, then the key set it points at, and
// publishes the result.
func (c *Cache) refresh(ctx context.Context) (*KeySet, error) {
	if c.logger != nil {
		c.logger.Info("fetching new JWKS", "discovery_url", c.discoveryURL)
	}

	start := c.now()
	ks, err := c.fetch(ctx)
	duration := c.now().Sub(start)

	result := "success"
	if err != nil {
		result = "failure"
	}
	if c.metrics != nil {
		c.metrics.IncCounter(RefreshCounter, map[string]string{"result": result})
		c.metrics.ObserveHistogram(RefreshDuration, duration.Seconds(), map[string]string{"result": result})
	}

	if err != nil {
		if c.logger != nil {
			c.logger.Error("failed to fetch OpenID configuration or JWKS", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	c.current.Store(ks)

	if c.logger != nil {
		c.logger.Info("fetched and cached new JWKS",
			"keys", ks.Len(),
			"expires_at", ks.ExpiresAt())
	}

	return ks, nil
}

func (c *Cache) fetch(ctx context.Context) (*KeySet, error) {
	wkEndpoints, err := oidc.GetWellKnownEndpoints(ctx, c.httpClient, c.discoveryURL)
	if err != nil {
		return nil, err
	}

	set, err := c.fetchJWKS(ctx, wkEndpoints.JWKSURI)
	if err != nil {
		return nil, err
	}

	now := c.now()
	return NewKeySet(set, now, now.Add(c.lifetime)), nil
}

func (c *Cache) fetchJWKS(ctx context.Context, jwksURI string) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURI, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get JWKS: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", jwksURI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request to %s returned status %d", jwksURI, resp.StatusCode)
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxKeySetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	if set.Len() == 0 {
		return nil, errors.New("JWKS contains no keys")
	}

	return set, nil
}
