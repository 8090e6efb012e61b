package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	identityKey contextKey = iota
)

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the identity stored by SetIdentity.
//
// Example usage from a resolver running behind the gate:
//
//	identity, err := core.GetIdentity(ctx)
//	if err != nil {
//	    return nil, err
//	}
//	if !identity.HasRole("Reports.Read") {
//	    return nil, errForbidden
//	}
func GetIdentity(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok || identity == nil {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}

// HasIdentity checks if an identity exists in the context without retrieving it.
func HasIdentity(ctx context.Context) bool {
	_, err := GetIdentity(ctx)
	return err == nil
}
