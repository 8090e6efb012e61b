package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsClientError(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindMissingCredentials, true},
		{KindMalformedHeader, true},
		{KindUnsupportedScheme, true},
		{KindMalformedToken, true},
		{KindUnknownKey, true},
		{KindInvalidToken, true},
		{KindKeyFetchFailed, false},
		{KindInternal, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsClientError())
		})
	}
}

func TestAuthError(t *testing.T) {
	cause := errors.New("signature mismatch")

	t.Run("Error includes kind, detail and cause", func(t *testing.T) {
		err := NewAuthError(KindInvalidToken, "Invalid token", cause)
		assert.Equal(t, "invalid_token: Invalid token: signature mismatch", err.Error())
	})

	t.Run("Error without cause", func(t *testing.T) {
		err := NewAuthError(KindMissingCredentials, "Authorization header is missing", nil)
		assert.Equal(t, "missing_credentials: Authorization header is missing", err.Error())
	})

	t.Run("Unwrap exposes the cause", func(t *testing.T) {
		err := NewAuthError(KindInvalidToken, "Invalid token", cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("client kinds match ErrUnauthenticated", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewAuthError(KindUnknownKey, "no key", nil))
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("key fetch failures match ErrProviderUnavailable", func(t *testing.T) {
		err := NewAuthError(KindKeyFetchFailed, "Could not fetch the security keys", cause)
		assert.ErrorIs(t, err, ErrProviderUnavailable)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnsupportedScheme, KindOf(NewAuthError(KindUnsupportedScheme, "", nil)))
	assert.Equal(t, KindInvalidToken, KindOf(fmt.Errorf("ctx: %w", NewAuthError(KindInvalidToken, "", nil))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIdentity(t *testing.T) {
	identity := &Identity{
		SubjectID: "oid-1",
		Roles:     []string{"Reports.Read", "Admin"},
		Scope:     "user_impersonation  Files.Read",
	}

	assert.True(t, identity.HasRole("Admin"))
	assert.False(t, identity.HasRole("admin"))
	assert.Equal(t, []string{"user_impersonation", "Files.Read"}, identity.Scopes())
	assert.True(t, identity.HasScope("Files.Read"))
	assert.False(t, identity.HasScope("Files.Write"))

	empty := &Identity{SubjectID: "oid-2", Roles: []string{}}
	assert.False(t, empty.HasRole("Admin"))
	assert.Empty(t, empty.Scopes())
}
