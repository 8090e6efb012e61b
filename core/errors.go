package core

import (
	"errors"
	"fmt"
)

// Kind classifies an authentication failure.
type Kind string

// Failure kinds. Every kind except KindKeyFetchFailed is something the caller
// can correct by presenting different credentials.
const (
	KindMissingCredentials Kind = "missing_credentials"
	KindMalformedHeader    Kind = "malformed_header"
	KindUnsupportedScheme  Kind = "unsupported_scheme"
	KindMalformedToken     Kind = "malformed_token"
	KindKeyFetchFailed     Kind = "key_fetch_failed"
	KindUnknownKey         Kind = "unknown_key"
	KindInvalidToken       Kind = "invalid_token"
	KindInternal           Kind = "internal_error"
)

// IsClientError reports whether the failure is caller-correctable and must be
// answered with a re-authentication challenge.
func (k Kind) IsClientError() bool {
	switch k {
	case KindMissingCredentials,
		KindMalformedHeader,
		KindUnsupportedScheme,
		KindMalformedToken,
		KindUnknownKey,
		KindInvalidToken:
		return true
	default:
		return false
	}
}

// Sentinel errors matched by AuthError.Is.
var (
	// ErrUnauthenticated matches every caller-correctable AuthError.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrProviderUnavailable matches failures caused by the identity
	// provider's key set being unreachable or unusable.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrIdentityNotFound is returned when no identity is stored in a context.
	ErrIdentityNotFound = errors.New("identity not found in context")
)

// AuthError is the failure branch of an authentication attempt. Detail is
// safe to show to the caller; it never contains token or key material.
type AuthError struct {
	Kind   Kind
	Detail string
	Err    error
}

// NewAuthError creates an AuthError of the given kind.
func NewAuthError(kind Kind, detail string, err error) *AuthError {
	return &AuthError{Kind: kind, Detail: detail, Err: err}
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is allows matching against ErrUnauthenticated or ErrProviderUnavailable.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Kind.IsClientError()
	case ErrProviderUnavailable:
		return e.Kind == KindKeyFetchFailed
	}
	return false
}

// KindOf returns the Kind of the first AuthError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}
