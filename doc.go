/*
Package aadauth authenticates HTTP requests carrying Azure AD (Microsoft
identity platform) access tokens.

The package is the HTTP boundary of a small pipeline:

	Gate (this package) -> validator.Validator -> jwks.Cache -> provider

The Gate extracts the bearer token, the validator checks it against the
tenant's published signing keys, and the cache keeps those keys in memory for
an hour at a time. The result is either a *core.Identity or a
*core.AuthError carrying one of the failure kinds listed in package core.

# Quick Start

	cfg, err := config.FromEnv() // TENANT_ID, CLIENT_ID
	if err != nil {
	    log.Fatal(err)
	}

	cache, err := jwks.New(cfg.DiscoveryURL())
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(
	    validator.WithKeySetProvider(cache),
	    validator.WithConfig(cfg),
	)
	if err != nil {
	    log.Fatal(err)
	}

	gate, err := aadauth.New(
	    aadauth.WithVerifier(v),
	    aadauth.WithConfig(cfg),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/graphql", gate.CheckAuth(graphqlHandler))

# Accessing the Identity

	func graphqlHandler(w http.ResponseWriter, r *http.Request) {
	    identity, err := aadauth.IdentityFrom(r.Context())
	    if err != nil {
	        http.Error(w, "unauthenticated", http.StatusUnauthorized)
	        return
	    }
	    if identity.HasRole("Reports.Read") {
	        // ...
	    }
	}

Resolvers that do not sit behind CheckAuth can call Gate.Authenticate
directly and answer failures with Gate.HandleError.

# Failure Responses

ChallengeErrorHandler, the default, writes {"detail": "..."} and:

  - 401 with WWW-Authenticate: Bearer authorization_uri="...", resource_id="..."
    for missing_credentials, malformed_header, unsupported_scheme,
    malformed_token, unknown_key and invalid_token
  - 500 without a challenge for key_fetch_failed and internal_error

# Logging, Metrics and Tracing

Logging is optional and uses a log/slog-compatible Logger. NewZapLogger and
NewLogrusLogger adapt zap and logrus. PrometheusMetrics records
aadauth_authentications_total and aadauth_authentication_duration_seconds by
result, and can be handed to jwks.WithMetrics to record key refreshes too.
NewOpenTelemetryTracer wraps every Authenticate call in a span.
*/
package aadauth
