// Package aadgin adapts aadauth.Gate to Gin.
package aadgin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/portalinsights/aadauth"
	"github.com/portalinsights/aadauth/core"
)

// DefaultIdentityKey is the gin.Context key the Identity is stored under.
const DefaultIdentityKey = "aadauth.identity"

var (
	ErrMissingIdentity = errors.New("no identity found in context")
	ErrInvalidIdentity = errors.New("invalid identity type")
)

// Middleware authenticates every request with gate. On success the Identity
// is stored both in the gin.Context under DefaultIdentityKey and in the
// request context, so aadauth.IdentityFrom works in handlers too. On failure
// the response is written by gate.HandleError and the chain is aborted.
func Middleware(gate *aadauth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := gate.Authenticate(c.Request)
		if err != nil {
			gate.HandleError(c.Writer, c.Request, err)
			c.Abort()
			return
		}

		c.Set(DefaultIdentityKey, identity)
		c.Request = c.Request.WithContext(core.SetIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// GetIdentity returns the Identity stored by Middleware.
func GetIdentity(c *gin.Context) (*core.Identity, error) {
	value, exists := c.Get(DefaultIdentityKey)
	if !exists {
		return nil, ErrMissingIdentity
	}

	identity, ok := value.(*core.Identity)
	if !ok {
		return nil, ErrInvalidIdentity
	}

	return identity, nil
}
