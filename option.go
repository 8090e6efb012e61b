package aadauth

import (
	"errors"
	"net/http"

	"github.com/portalinsights/aadauth/config"
	"github.com/portalinsights/aadauth/core"
)

// Option configures the Gate.
// Returns error for validation failures.
type Option func(*Gate) error

// WithVerifier sets the token verifier (REQUIRED). *validator.Validator
// satisfies core.Verifier.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithKeySetProvider(cache),
//	    validator.WithConfig(cfg),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gate, err := aadauth.New(
//	    aadauth.WithVerifier(v),
//	    aadauth.WithConfig(cfg),
//	)
func WithVerifier(v core.Verifier) Option {
	return func(g *Gate) error {
		if v == nil {
			return ErrVerifierNil
		}
		g.verifier = v
		return nil
	}
}

// WithConfig derives the WWW-Authenticate challenge from the tenant and
// client identifiers in cfg.
func WithConfig(cfg *config.Config) Option {
	return func(g *Gate) error {
		if cfg == nil {
			return ErrConfigNil
		}
		g.challenge = cfg.Challenge()
		return nil
	}
}

// WithChallenge sets the WWW-Authenticate value sent with client failures.
// Either WithConfig or WithChallenge is required.
func WithChallenge(challenge string) Option {
	return func(g *Gate) error {
		if challenge == "" {
			return ErrChallengeEmpty
		}
		g.challenge = challenge
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should be authenticated.
//
// Default: true (OPTIONS requests are authenticated)
func WithValidateOnOptions(value bool) Option {
	return func(g *Gate) error {
		g.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when authentication fails.
// See the ErrorHandler type for more information.
//
// Default: ChallengeErrorHandler with the configured challenge
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gate) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		g.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(g *Gate) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		g.tokenExtractor = e
		return nil
	}
}

// WithExclusionURLs configures paths that CheckAuth lets through
// unauthenticated. Entries can be full URLs or just paths.
func WithExclusionURLs(exclusions []string) Option {
	return func(g *Gate) error {
		if len(exclusions) == 0 {
			return ErrExclusionURLsEmpty
		}
		g.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the gate.
// The logger will be used throughout the flow in both gate and core.
func WithLogger(logger Logger) Option {
	return func(g *Gate) error {
		if logger == nil {
			return ErrLoggerNil
		}
		g.logger = logger
		return nil
	}
}

// WithMetrics records authentication outcomes.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(g *Gate) error {
		if m == nil {
			return ErrMetricsNil
		}
		g.metrics = m
		return nil
	}
}

// WithTracer wraps each authentication in a span.
//
// Default: NoopTracer
func WithTracer(t Tracer) Option {
	return func(g *Gate) error {
		if t == nil {
			return ErrTracerNil
		}
		g.tracer = t
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrVerifierNil        = errors.New("verifier cannot be nil (use WithVerifier)")
	ErrConfigNil          = errors.New("config cannot be nil")
	ErrChallengeEmpty     = errors.New("challenge cannot be empty (use WithConfig or WithChallenge)")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionURLsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)
