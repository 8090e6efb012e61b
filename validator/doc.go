/*
Package validator verifies Azure AD access tokens using the lestrrat-go/jwx v3
library and maps them to a core.Identity.

# Verification

VerifyToken runs these checks in order and stops at the first failure:

  - The token must be a compact JWS no larger than 1MB whose header and
    payload decode as JSON. Otherwise: core.KindMalformedToken.
  - The key set is requested from the KeySetProvider, normally a *jwks.Cache.
    If it cannot be obtained: core.KindKeyFetchFailed.
  - The first key whose kid equals the header's kid is selected. If none
    does: core.KindUnknownKey. This is checked before the signature, so a
    token from a rotated-out key never reports as invalid_token.
  - The header's alg must be one of the accepted algorithms, the signature
    must verify, iss must equal the issuer, aud must contain the audience,
    exp must be present and in the future and nbf (if present) in the past.
    Any failure is core.KindInvalidToken with the reason in the detail.

# Identity mapping

	oid   -> SubjectID (required)
	name  -> DisplayName
	roles -> Roles (empty when absent)
	scp   -> Scope

Other claims are ignored.

# Basic Usage

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

	identity, err := v.VerifyToken(ctx, token)
*/
package validator
