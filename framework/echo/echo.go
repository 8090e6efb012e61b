// Package aadecho adapts aadauth.Gate to Echo.
package aadecho

import (
	"github.com/labstack/echo/v4"

	"github.com/portalinsights/aadauth"
	"github.com/portalinsights/aadauth/core"
)

// DefaultIdentityKey is the echo.Context key the Identity is stored under.
const DefaultIdentityKey = "aadauth.identity"

// Middleware authenticates every request with gate. Failures are answered
// by gate.HandleError and the next handler is not called.
func Middleware(gate *aadauth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := gate.Authenticate(c.Request())
			if err != nil {
				gate.HandleError(c.Response(), c.Request(), err)
				return nil
			}

			c.Set(DefaultIdentityKey, identity)
			c.SetRequest(c.Request().WithContext(core.SetIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// GetIdentity extracts the Identity stored by Middleware.
func GetIdentity(c echo.Context) (*core.Identity, bool) {
	identity, ok := c.Get(DefaultIdentityKey).(*core.Identity)
	return identity, ok && identity != nil
}
