package validator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"

	"github.com/portalinsights/aadauth/config"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeySetProvider sets where signing keys come from.
// This is a required option.
func WithKeySetProvider(provider KeySetProvider) Option {
	return func(v *Validator) error {
		if provider == nil {
			return errors.New("key set provider cannot be nil")
		}
		v.keys = provider
		return nil
	}
}

// WithIssuer sets the expected issuer claim (iss).
//
// Tokens with a different issuer are rejected.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAudience sets the expected audience claim (aud), normally the
// application's client id.
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audience = audience
		return nil
	}
}

// WithAlgorithms replaces the accepted signature algorithms.
// Default: RS256 only.
func WithAlgorithms(algorithms ...string) Option {
	return func(v *Validator) error {
		if len(algorithms) == 0 {
			return errors.New("at least one algorithm is required")
		}
		allowed := make(map[string]jwa.SignatureAlgorithm, len(algorithms))
		for _, name := range algorithms {
			alg, ok := signatureAlgorithms[name]
			if !ok {
				return fmt.Errorf("unsupported signature algorithm: %s", name)
			}
			allowed[name] = alg
		}
		v.algorithms = allowed
		return nil
	}
}

// WithConfig takes issuer, audience and algorithms from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(v *Validator) error {
		if cfg == nil {
			return errors.New("config cannot be nil")
		}
		for _, opt := range []Option{
			WithIssuer(cfg.Issuer()),
			WithAudience(cfg.ClientID()),
			WithAlgorithms(cfg.Algorithms()...),
		} {
			if err := opt(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp and nbf.
// If not set, no clock skew is allowed.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock replaces time.Now when checking exp and nbf.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// WithLogger sets an optional logger.
func WithLogger(logger Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}
