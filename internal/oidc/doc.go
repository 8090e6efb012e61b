/*
Package oidc fetches and decodes an OpenID Connect discovery document.

Identity providers expose their metadata at a well-known URL derived from the
issuer:

	https://login.microsoftonline.com/{tenant}/v2.0/.well-known/openid-configuration

The only field this module needs from that document is jwks_uri, the location
of the provider's signing-key set.

# Usage

	client := &http.Client{Timeout: 30 * time.Second}

	endpoints, err := oidc.GetWellKnownEndpoints(ctx, client, cfg.DiscoveryURL())
	if err != nil {
	    // Possible errors:
	    // - Network failure or timeout
	    // - Non-2xx status
	    // - Invalid JSON response
	    // - Missing or unparseable jwks_uri
	}

	jwksURI := endpoints.JWKSURI

# Reference

OpenID Connect Discovery 1.0
https://openid.net/specs/openid-connect-discovery-1_0.html
*/
package oidc
