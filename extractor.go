package aadauth

import (
	"net/http"
	"strings"

	"github.com/portalinsights/aadauth/core"
)

const (
	detailMalformedHeader   = "Invalid Authorization header format."
	detailUnsupportedScheme = "Invalid authentication scheme. Must be 'Bearer'."
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
//
// Errors that are not a *core.AuthError are reported as
// core.KindMalformedHeader.
type TokenExtractor func(r *http.Request) (string, error)

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from the Authorization header.
//
// The header must be exactly "<scheme> <token>". A header with any other
// number of fields fails with core.KindMalformedHeader, and a scheme other
// than Bearer (case-insensitive) fails with core.KindUnsupportedScheme.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil // No error, just no token.
	}

	authHeaderParts := strings.Fields(authHeader)
	if len(authHeaderParts) != 2 {
		return "", core.NewAuthError(core.KindMalformedHeader, detailMalformedHeader, nil)
	}

	if !strings.EqualFold(authHeaderParts[0], "bearer") {
		return "", core.NewAuthError(core.KindUnsupportedScheme, detailUnsupportedScheme, nil)
	}

	return authHeaderParts[1], nil
}
