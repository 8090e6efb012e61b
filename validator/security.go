package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token has more segments than
	// a compact JWS, which could indicate an attempt to exhaust memory while
	// splitting it (CVE-2025-27144).
	ErrExcessiveTokenDots = errors.New("token contains excessive dots")

	// ErrTokenTooLarge is returned for tokens over maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")

	// ErrTokenEmpty is returned for an empty token string.
	ErrTokenEmpty = errors.New("token is empty")

	// ErrTokenSegments is returned when the token is not header.payload.signature.
	ErrTokenSegments = errors.New("token must have three segments")
)

const (
	// maxTokenDots is the number of dots in a JWS compact serialization.
	// Encrypted tokens are not accepted, so nothing longer is valid.
	maxTokenDots = 2

	// maxTokenSize rejects tokens that are suspiciously large. Real access
	// tokens are a few KB.
	maxTokenSize = 1024 * 1024
)

// validateTokenFormat rejects obviously malformed input before any decoding
// takes place.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return ErrTokenEmpty
	}

	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}

	dotCount := strings.Count(tokenString, ".")
	if dotCount > maxTokenDots {
		return ErrExcessiveTokenDots
	}
	if dotCount < maxTokenDots {
		return ErrTokenSegments
	}

	return nil
}
