package aadauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/portalinsights/aadauth/core"
)

// Gate authenticates inbound HTTP requests before any protected operation
// runs. It extracts the bearer token, hands it to the verifier and turns the
// outcome into an Identity or a *core.AuthError.
type Gate struct {
	core                *core.Core
	challenge           string
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Temporary field used during construction
	verifier core.Verifier
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should be let through CheckAuth unauthenticated.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new Gate with the supplied options.
//
// Example:
//
//	gate, err := aadauth.New(
//	    aadauth.WithVerifier(v),
//	    aadauth.WithConfig(cfg),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create gate: %v", err)
//	}
func New(opts ...Option) (*Gate, error) {
	g := &Gate{
		validateOnOptions: true, // Validate OPTIONS by default
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid gate configuration: %w", err)
	}

	g.applyDefaults()

	if err := g.createCore(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return g, nil
}

// validate ensures all required fields are set
func (g *Gate) validate() error {
	if g.verifier == nil {
		return ErrVerifierNil
	}
	if g.challenge == "" {
		return ErrChallengeEmpty
	}
	return nil
}

// applyDefaults sets default values for optional fields
func (g *Gate) applyDefaults() {
	if g.errorHandler == nil {
		g.errorHandler = ChallengeErrorHandler(g.challenge)
	}
	if g.tokenExtractor == nil {
		g.tokenExtractor = AuthHeaderTokenExtractor
	}
	if g.metrics == nil {
		g.metrics = &NoopMetrics{}
	}
	if g.tracer == nil {
		g.tracer = &NoopTracer{}
	}
}

func (g *Gate) createCore() error {
	coreOpts := []core.Option{core.WithVerifier(g.verifier)}
	if g.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(g.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	g.core = c
	return nil
}

// Challenge returns the WWW-Authenticate value sent with client failures.
func (g *Gate) Challenge() string {
	return g.challenge
}

// Authenticate runs the full gate against r and returns the caller's
// Identity. Every failure is a *core.AuthError:
//
//   - no Authorization header: core.KindMissingCredentials
//   - header not "<scheme> <token>": core.KindMalformedHeader
//   - scheme other than Bearer: core.KindUnsupportedScheme
//   - otherwise whatever the verifier returned
func (g *Gate) Authenticate(r *http.Request) (*core.Identity, error) {
	ctx, span := g.tracer.StartSpan(r.Context(), "aadauth.Authenticate")
	defer span.Finish()

	start := time.Now()
	identity, err := g.authenticate(ctx, r)
	duration := time.Since(start)

	result := "success"
	if err != nil {
		result = string(core.KindOf(err))
		span.SetError(err)
	}
	span.SetTag("aadauth.result", result)

	g.metrics.IncCounter(AuthenticationsCounter, map[string]string{"result": result})
	g.metrics.ObserveHistogram(AuthenticationDuration, duration.Seconds(), map[string]string{"result": result})

	return identity, err
}

func (g *Gate) authenticate(ctx context.Context, r *http.Request) (*core.Identity, error) {
	token, err := g.tokenExtractor(r)
	if err != nil {
		var authErr *core.AuthError
		if !errors.As(err, &authErr) {
			err = core.NewAuthError(core.KindMalformedHeader, detailMalformedHeader, err)
		}
		if g.logger != nil {
			g.logger.Warn("rejected Authorization header",
				"kind", string(core.KindOf(err)),
				"method", r.Method,
				"path", r.URL.Path)
		}
		return nil, err
	}

	return g.core.CheckToken(ctx, token)
}

// HandleError writes the response for a failed Authenticate using the
// configured ErrorHandler. Framework adapters use it to answer the same way
// CheckAuth does.
func (g *Gate) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	g.errorHandler(w, r, err)
}

// IdentityFrom returns the Identity CheckAuth stored in ctx.
//
// Example:
//
//	identity, err := aadauth.IdentityFrom(r.Context())
//	if err != nil {
//	    http.Error(w, "unauthenticated", http.StatusUnauthorized)
//	    return
//	}
//	fmt.Println(identity.SubjectID)
func IdentityFrom(ctx context.Context) (*core.Identity, error) {
	return core.GetIdentity(ctx)
}

// CheckAuth is the main Gate middleware. It is passed a http.Handler which
// will be called only if the request authenticates. The Identity is stored
// in the request context for IdentityFrom.
func (g *Gate) CheckAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.exclusionURLHandler != nil && g.exclusionURLHandler(r) {
			if g.logger != nil {
				g.logger.Debug("skipping authentication for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		// If we don't validate on OPTIONS and this is OPTIONS
		// then continue onto next without validating.
		if !g.validateOnOptions && r.Method == http.MethodOptions {
			if g.logger != nil {
				g.logger.Debug("skipping authentication for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		identity, err := g.Authenticate(r)
		if err != nil {
			g.errorHandler(w, r, err)
			return
		}

		r = r.Clone(core.SetIdentity(r.Context(), identity))
		next.ServeHTTP(w, r)
	})
}
