package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/portalinsights/aadauth/core"
	"github.com/portalinsights/aadauth/jwks"
)

// Detail strings returned to callers. They never contain token content.
const (
	detailMalformedToken = "Invalid token: the token could not be parsed."
	detailKeyFetch       = "Could not fetch the security keys for authentication."
	detailUnknownKey     = "Unable to find a matching key to verify the token."
	detailInvalidPrefix  = "Invalid token: "
)

// KeySetProvider returns the key set tokens are verified against.
// *jwks.Cache implements it.
type KeySetProvider interface {
	GetKeySet(ctx context.Context) (*jwks.KeySet, error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// signatureAlgorithms maps algorithm names to their jwx values. HMAC is not
// listed because provider key sets hold public keys.
var signatureAlgorithms = map[string]jwa.SignatureAlgorithm{
	"RS256": jwa.RS256(),
	"RS384": jwa.RS384(),
	"RS512": jwa.RS512(),
	"PS256": jwa.PS256(),
	"PS384": jwa.PS384(),
	"PS512": jwa.PS512(),
	"ES256": jwa.ES256(),
	"ES384": jwa.ES384(),
	"ES512": jwa.ES512(),
}

// Validator verifies access tokens issued by the configured tenant.
type Validator struct {
	keys             KeySetProvider                    // Required.
	issuer           string                            // Required.
	audience         string                            // Required.
	algorithms       map[string]jwa.SignatureAlgorithm // Defaults to RS256.
	allowedClockSkew time.Duration                     // Optional.
	now              func() time.Time
	logger           Logger
}

// New creates a Validator. WithKeySetProvider, WithIssuer and WithAudience
// (or WithConfig, which sets the latter two) are required.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithKeySetProvider(cache),
//	    validator.WithConfig(cfg),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		algorithms: map[string]jwa.SignatureAlgorithm{"RS256": jwa.RS256()},
		now:        time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := v.validate(); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Validator) validate() error {
	if v.keys == nil {
		return errors.New("key set provider is required (use WithKeySetProvider)")
	}
	if v.issuer == "" {
		return errors.New("issuer is required (use WithIssuer or WithConfig)")
	}
	if v.audience == "" {
		return errors.New("audience is required (use WithAudience or WithConfig)")
	}
	return nil
}

// VerifyToken verifies tokenString and maps its claims to an Identity.
//
// Steps, each failing with its own kind:
//  1. decode the unverified header (KindMalformedToken)
//  2. obtain the current key set (KindKeyFetchFailed)
//  3. pick the first key whose kid matches the header (KindUnknownKey)
//  4. check algorithm, signature, iss, aud, exp and nbf (KindInvalidToken)
//  5. map oid, name, roles and scp from the verified token (KindInvalidToken)
//
// All returned errors are *core.AuthError.
func (v *Validator) VerifyToken(ctx context.Context, tokenString string) (*core.Identity, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, core.NewAuthError(core.KindMalformedToken, detailMalformedToken, err)
	}

	header, err := parseHeader(tokenString)
	if err != nil {
		return nil, core.NewAuthError(core.KindMalformedToken, detailMalformedToken, err)
	}
	if err := checkPayload(tokenString); err != nil {
		return nil, core.NewAuthError(core.KindMalformedToken, detailMalformedToken, err)
	}

	keySet, err := v.keys.GetKeySet(ctx)
	if err != nil {
		return nil, core.NewAuthError(core.KindKeyFetchFailed, detailKeyFetch, err)
	}

	key, ok := keySet.LookupKeyID(header.KeyID)
	if !ok {
		if v.logger != nil {
			v.logger.Warn("no matching key id found in JWKS", "kid_present", header.KeyID != "", "keys", keySet.Len())
		}
		return nil, core.NewAuthError(core.KindUnknownKey, detailUnknownKey, nil)
	}

	alg, ok := v.algorithms[header.Algorithm]
	if !ok {
		return nil, invalidToken(fmt.Errorf("signature algorithm %q is not allowed", header.Algorithm))
	}

	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(alg, key),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, invalidToken(err)
	}

	identity, err := identityFromToken(token)
	if err != nil {
		return nil, invalidToken(err)
	}

	if v.logger != nil {
		v.logger.Info("token successfully verified", "subject_id", identity.SubjectID)
	}

	return identity, nil
}

func invalidToken(err error) *core.AuthError {
	return core.NewAuthError(core.KindInvalidToken, detailInvalidPrefix+err.Error(), err)
}
