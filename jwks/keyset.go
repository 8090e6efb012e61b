package jwks

import (
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// KeySet is one successful fetch of the provider's signing keys together with
// the instant it stops being trusted. A KeySet is never modified after it is
// built; refreshing the cache replaces it.
type KeySet struct {
	keys      jwk.Set
	fetchedAt time.Time
	expiresAt time.Time
}

// NewKeySet wraps keys fetched at fetchedAt and valid until expiresAt.
func NewKeySet(keys jwk.Set, fetchedAt, expiresAt time.Time) *KeySet {
	return &KeySet{keys: keys, fetchedAt: fetchedAt, expiresAt: expiresAt}
}

// Keys returns the underlying key set.
func (ks *KeySet) Keys() jwk.Set { return ks.keys }

// Len returns the number of keys.
func (ks *KeySet) Len() int { return ks.keys.Len() }

// FetchedAt returns when the keys were retrieved.
func (ks *KeySet) FetchedAt() time.Time { return ks.fetchedAt }

// ExpiresAt returns the instant after which the set is stale.
func (ks *KeySet) ExpiresAt() time.Time { return ks.expiresAt }

// ValidAt reports whether the set is still fresh at t.
func (ks *KeySet) ValidAt(t time.Time) bool {
	return t.Before(ks.expiresAt)
}

// LookupKeyID scans the keys in order and returns the first one whose key id
// equals kid. Keys without a key id never match.
func (ks *KeySet) LookupKeyID(kid string) (jwk.Key, bool) {
	if kid == "" {
		return nil, false
	}
	for i := 0; i < ks.keys.Len(); i++ {
		key, ok := ks.keys.Key(i)
		if !ok {
			continue
		}
		if id, ok := key.KeyID(); ok && id == kid {
			return key, true
		}
	}
	return nil, false
}
