/*
Package core provides the transport-agnostic part of request authentication.

It owns the result types every layer shares:

  - Identity: the principal behind a verified token (object id, display name,
    app roles, delegated scopes).
  - AuthError: the failure branch, tagged with a Kind.

and a small engine, Core, that turns a raw bearer token into one of the two
by delegating to a Verifier (see the validator package).

# Failure kinds

	Kind                  Caller-correctable
	missing_credentials   yes
	malformed_header      yes
	unsupported_scheme    yes
	malformed_token       yes
	unknown_key           yes
	invalid_token         yes
	key_fetch_failed      no (identity provider unavailable)
	internal_error        no

Transport adapters decide the response from Kind.IsClientError: caller
problems are answered with a re-authentication challenge, infrastructure
problems are surfaced as server errors without one.

	identity, err := c.CheckToken(ctx, token)
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
	    // 401 + WWW-Authenticate
	case err != nil:
	    // 500
	}

# Context

Adapters store the identity in the request context with SetIdentity so
downstream handlers can read it with GetIdentity.
*/
package core
