package core

import (
	"slices"
	"strings"
)

// Identity is the authenticated principal behind a verified token.
type Identity struct {
	// SubjectID is the provider's object id (oid) for the principal.
	SubjectID string `json:"subjectId"`

	// DisplayName is the optional human-readable name claim.
	DisplayName string `json:"displayName,omitempty"`

	// Roles are the app roles granted to the principal. Never nil.
	Roles []string `json:"roles"`

	// Scope is the raw space-delimited scp claim, if any.
	Scope string `json:"scope,omitempty"`
}

// HasRole reports whether the principal was granted role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// Scopes splits Scope into its individual values.
func (i *Identity) Scopes() []string {
	return strings.Fields(i.Scope)
}

// HasScope reports whether scope is one of the delegated scopes.
func (i *Identity) HasScope(scope string) bool {
	return slices.Contains(i.Scopes(), scope)
}
