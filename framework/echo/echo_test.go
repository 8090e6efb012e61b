package aadecho

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalinsights/aadauth"
	"github.com/portalinsights/aadauth/core"
)

type verifierFunc func(ctx context.Context, token string) (*core.Identity, error)

func (f verifierFunc) VerifyToken(ctx context.Context, token string) (*core.Identity, error) {
	return f(ctx, token)
}

func TestMiddleware(t *testing.T) {
	const challenge = `Bearer authorization_uri="https://login.microsoftonline.com/t1", resource_id="c1"`

	gate, err := aadauth.New(
		aadauth.WithVerifier(verifierFunc(func(_ context.Context, token string) (*core.Identity, error) {
			if token == "good" {
				return &core.Identity{SubjectID: "oid-1", Roles: []string{"Reports.Read"}}, nil
			}
			return nil, core.NewAuthError(core.KindKeyFetchFailed, "Could not fetch the security keys for authentication.", nil)
		})),
		aadauth.WithChallenge(challenge),
	)
	require.NoError(t, err)

	e := echo.New()
	e.Use(Middleware(gate))
	e.GET("/me", func(c echo.Context) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, identity)
	})

	t.Run("valid token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/me", nil)
		request.Header.Set("Authorization", "Bearer good")
		recorder := httptest.NewRecorder()

		e.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"subjectId":"oid-1","roles":["Reports.Read"]}`, recorder.Body.String())
	})

	t.Run("unsupported scheme gets a challenge", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/me", nil)
		request.Header.Set("Authorization", "Basic abc")
		recorder := httptest.NewRecorder()

		e.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, challenge, recorder.Header().Get("WWW-Authenticate"))
	})

	t.Run("key fetch failure is a server error without a challenge", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/me", nil)
		request.Header.Set("Authorization", "Bearer other")
		recorder := httptest.NewRecorder()

		e.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Empty(t, recorder.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"detail":"Could not fetch the security keys for authentication."}`, recorder.Body.String())
	})
}
