package validator

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/portalinsights/aadauth/core"
)

// tokenHeader is the unverified JOSE header of an access token.
type tokenHeader struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
	Type      string `json:"typ,omitempty"`
}

// Claims mapped onto core.Identity. Any other claim in the payload is ignored.
const (
	claimObjectID = "oid"
	claimName     = "name"
	claimRoles    = "roles"
	claimScope    = "scp"
)

// identityFromToken builds the Identity for a token whose signature and
// registered claims have already been verified. The object id is the only
// claim that must be present.
func identityFromToken(token jwt.Token) (*core.Identity, error) {
	objectID, err := stringClaim(token, claimObjectID)
	if err != nil {
		return nil, err
	}
	if objectID == "" {
		return nil, errors.New("missing required oid claim")
	}

	name, err := stringClaim(token, claimName)
	if err != nil {
		return nil, err
	}
	roles, err := stringListClaim(token, claimRoles)
	if err != nil {
		return nil, err
	}
	scope, err := stringClaim(token, claimScope)
	if err != nil {
		return nil, err
	}

	return &core.Identity{
		SubjectID:   objectID,
		DisplayName: name,
		Roles:       roles,
		Scope:       scope,
	}, nil
}

func stringClaim(token jwt.Token, name string) (string, error) {
	if !token.Has(name) {
		return "", nil
	}

	var raw any
	if err := token.Get(name, &raw); err != nil {
		return "", fmt.Errorf("failed to read %s claim: %w", name, err)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s claim must be a string", name)
	}
	return value, nil
}

// stringListClaim returns an empty, non-nil slice when the claim is absent.
func stringListClaim(token jwt.Token, name string) ([]string, error) {
	values := []string{}
	if !token.Has(name) {
		return values, nil
	}

	var raw any
	if err := token.Get(name, &raw); err != nil {
		return nil, fmt.Errorf("failed to read %s claim: %w", name, err)
	}

	switch list := raw.(type) {
	case []string:
		return append(values, list...), nil
	case []any:
		for _, item := range list {
			value, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s claim must be a list of strings", name)
			}
			values = append(values, value)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%s claim must be a list of strings", name)
	}
}

// parseHeader decodes the first segment of tokenString without checking the
// signature. The token must already have passed validateTokenFormat.
func parseHeader(tokenString string) (*tokenHeader, error) {
	var header tokenHeader
	if err := decodeSegment(tokenString[:strings.IndexByte(tokenString, '.')], &header); err != nil {
		return nil, fmt.Errorf("failed to decode token header: %w", err)
	}
	if header.Algorithm == "" {
		return nil, errors.New("token header missing alg")
	}
	return &header, nil
}

// checkPayload only confirms the payload segment is a JSON object. Claim
// values are not read until the signature has been verified.
func checkPayload(tokenString string) error {
	parts := strings.SplitN(tokenString, ".", 3)
	if len(parts) != 3 {
		return ErrTokenSegments
	}

	var payload map[string]json.RawMessage
	if err := decodeSegment(parts[1], &payload); err != nil {
		return fmt.Errorf("failed to decode token payload: %w", err)
	}
	return nil
}

func decodeSegment(segment string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
