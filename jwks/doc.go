/*
Package jwks fetches and caches an identity provider's signing-key set.

# Overview

A Cache is created with the provider's OIDC discovery URL. The first call to
GetKeySet, and the first call after the current set expires, performs a
refresh:

 1. GET the discovery document and read jwks_uri.
 2. GET jwks_uri and parse the JSON Web Key Set.
 3. Publish the new KeySet with ExpiresAt = now + lifetime (one hour).

Any failure in either request (transport error, timeout, non-2xx status,
malformed JSON, missing jwks_uri, empty key set) fails the whole refresh with
an error wrapping ErrFetchFailed. The previous, expired KeySet is never
returned as a fallback: serving stale keys could accept tokens signed by a
rotated-out key.

# Basic Usage

	cache, err := jwks.New(cfg.DiscoveryURL())
	if err != nil {
	    log.Fatal(err)
	}

	ks, err := cache.GetKeySet(ctx)
	if err != nil {
	    // errors.Is(err, jwks.ErrFetchFailed) == true
	}

	key, ok := ks.LookupKeyID(kid)

# Concurrency

GetKeySet is safe for concurrent use. The current KeySet is held behind an
atomic pointer and replaced wholesale, so a reader never sees new keys paired
with an old expiry. Callers that find the cache stale at the same time share
a single in-flight refresh (golang.org/x/sync/singleflight); a caller whose
context ends stops waiting but does not cancel the shared fetch.

# Configuration

	cache, err := jwks.New(discoveryURL,
	    jwks.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	    jwks.WithLifetime(time.Hour),
	    jwks.WithLogger(logger),
	    jwks.WithMetrics(metrics),
	)

The default HTTP client has a 30 second timeout; a timeout surfaces as
ErrFetchFailed like any other fetch failure.

The lifetime is fixed. Cache-Control headers returned by the provider are
ignored.
*/
package jwks
