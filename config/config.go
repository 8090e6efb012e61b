// Package config resolves the identity-provider settings the rest of the
// module authenticates against.
//
// A Config is built once at startup, either from explicit identifiers with New
// or from the process environment with FromEnv, and is never mutated
// afterwards. Missing identifiers are a construction error; callers are
// expected to treat that as fatal and refuse to serve.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
)

// AuthorityHost is the Microsoft identity platform login endpoint.
const AuthorityHost = "https://login.microsoftonline.com"

// DefaultAlgorithm is the only signature algorithm accepted unless
// WithAlgorithms says otherwise.
const DefaultAlgorithm = "RS256"

// Sentinel errors for configuration validation.
var (
	ErrTenantIDMissing   = errors.New("TENANT_ID must be set")
	ErrClientIDMissing   = errors.New("CLIENT_ID must be set")
	ErrAlgorithmsEmpty   = errors.New("at least one signature algorithm is required")
	ErrAlgorithmNotValid = errors.New("unsupported signature algorithm")
)

// supportedAlgorithms lists the asymmetric algorithms a provider-published
// key set can verify. Provider key sets carry public keys only, so HMAC
// algorithms are absent.
var supportedAlgorithms = map[string]bool{
	"RS256": true,
	"RS384": true,
	"RS512": true,
	"PS256": true,
	"PS384": true,
	"PS512": true,
	"ES256": true,
	"ES384": true,
	"ES512": true,
}

// Config is the immutable identity-provider configuration.
type Config struct {
	tenantID     string
	clientID     string
	issuer       string
	discoveryURL string
	algorithms   []string
}

// Option configures optional Config fields.
type Option func(*Config) error

// WithAlgorithms replaces the accepted signature algorithm set.
func WithAlgorithms(algs ...string) Option {
	return func(c *Config) error {
		if len(algs) == 0 {
			return ErrAlgorithmsEmpty
		}
		seen := make(map[string]bool, len(algs))
		out := make([]string, 0, len(algs))
		for _, alg := range algs {
			alg = strings.TrimSpace(alg)
			if alg == "" || seen[alg] {
				continue
			}
			if !supportedAlgorithms[alg] {
				return fmt.Errorf("%w: %q", ErrAlgorithmNotValid, alg)
			}
			seen[alg] = true
			out = append(out, alg)
		}
		if len(out) == 0 {
			return ErrAlgorithmsEmpty
		}
		c.algorithms = out
		return nil
	}
}

// New validates the tenant and client identifiers and derives the issuer
// and discovery URLs from the tenant.
func New(tenantID, clientID string, opts ...Option) (*Config, error) {
	tenantID = strings.TrimSpace(tenantID)
	clientID = strings.TrimSpace(clientID)

	if tenantID == "" {
		return nil, ErrTenantIDMissing
	}
	if clientID == "" {
		return nil, ErrClientIDMissing
	}

	issuer := AuthorityHost + "/" + tenantID + "/v2.0"
	c := &Config{
		tenantID:     tenantID,
		clientID:     clientID,
		issuer:       issuer,
		discoveryURL: issuer + "/.well-known/openid-configuration",
		algorithms:   []string{DefaultAlgorithm},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return c, nil
}

// environment is the envdecode target for FromEnv.
type environment struct {
	TenantID   string `env:"TENANT_ID"`
	ClientID   string `env:"CLIENT_ID"`
	Algorithms string `env:"JWT_ALGORITHMS,default=RS256"`
}

// FromEnv builds a Config from TENANT_ID, CLIENT_ID and the optional
// comma-separated JWT_ALGORITHMS.
func FromEnv() (*Config, error) {
	var env environment
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	return New(env.TenantID, env.ClientID, WithAlgorithms(strings.Split(env.Algorithms, ",")...))
}

// TenantID returns the identity-provider tenant identifier.
func (c *Config) TenantID() string { return c.tenantID }

// ClientID returns the registered application identifier, which is also the
// expected token audience.
func (c *Config) ClientID() string { return c.clientID }

// Issuer returns the expected token issuer.
func (c *Config) Issuer() string { return c.issuer }

// DiscoveryURL returns the OIDC discovery document location.
func (c *Config) DiscoveryURL() string { return c.discoveryURL }

// Algorithms returns a copy of the accepted signature algorithms.
func (c *Config) Algorithms() []string {
	out := make([]string, len(c.algorithms))
	copy(out, c.algorithms)
	return out
}

// AuthorizationURI returns the tenant's authority URL advertised to callers
// that need to re-authenticate.
func (c *Config) AuthorizationURI() string {
	return AuthorityHost + "/" + c.tenantID
}

// Challenge returns the WWW-Authenticate value sent with caller-correctable
// authentication failures.
func (c *Config) Challenge() string {
	return fmt.Sprintf(`Bearer authorization_uri="%s", resource_id="%s"`, c.AuthorizationURI(), c.clientID)
}
