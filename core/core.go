// Package core provides transport-agnostic token authentication that the
// HTTP gate, or any other transport adapter, delegates to.
package core

import (
	"context"
	"errors"
	"time"
)

// Verifier verifies a raw bearer token and maps it to an Identity.
// Failures must be returned as *AuthError.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the transport-agnostic authentication engine.
type Core struct {
	verifier Verifier
	logger   Logger
}

// CheckToken verifies token and returns the authenticated identity.
//
//   - An empty token fails with KindMissingCredentials.
//   - Any other outcome is the verifier's, returned unchanged.
//
// Errors that are not an *AuthError are wrapped as KindInternal so callers
// can always recover a Kind.
func (c *Core) CheckToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		if c.logger != nil {
			c.logger.Warn("no token provided and credentials are required")
		}
		return nil, NewAuthError(KindMissingCredentials, "Authorization header is missing", nil)
	}

	start := time.Now()
	identity, err := c.verifier.VerifyToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			err = NewAuthError(KindInternal, "An error occurred during token verification.", err)
		}
		if c.logger != nil {
			c.logger.Warn("token verification failed",
				"kind", string(KindOf(err)),
				"error", err,
				"duration", duration)
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("token verified", "subject_id", identity.SubjectID, "duration", duration)
	}

	return identity, nil
}
