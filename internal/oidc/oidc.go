package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxDocumentSize bounds how much of a discovery response is read.
const maxDocumentSize = 1 << 20

// ErrJWKSURIMissing is returned when the discovery document has no usable
// jwks_uri field.
var ErrJWKSURIMissing = errors.New("discovery document does not contain jwks_uri")

// WellKnownEndpoints holds the well known OIDC endpoints
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer,omitempty"`
	JWKSURI string `json:"jwks_uri"`
}

// GetWellKnownEndpoints fetches the discovery document at discoveryURL and
// returns the endpoints it advertises. Any non-2xx status is an error.
func GetWellKnownEndpoints(ctx context.Context, client *http.Client, discoveryURL string) (*WellKnownEndpoints, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get well known endpoints: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get well known endpoints from url %s: %w", discoveryURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("well known endpoints request to %s returned status %d", discoveryURL, resp.StatusCode)
	}

	var wkEndpoints WellKnownEndpoints
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&wkEndpoints); err != nil {
		return nil, fmt.Errorf("could not decode json body when getting well known endpoints: %w", err)
	}

	if wkEndpoints.JWKSURI == "" {
		return nil, ErrJWKSURIMissing
	}

	jwksURI, err := url.Parse(wkEndpoints.JWKSURI)
	if err != nil {
		return nil, fmt.Errorf("could not parse JWKS URI from well known endpoints: %w", err)
	}
	if jwksURI.Scheme == "" || jwksURI.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrJWKSURIMissing, wkEndpoints.JWKSURI)
	}

	return &wkEndpoints, nil
}
