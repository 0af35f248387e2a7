package claims

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LegacyRoleClaimURI is the namespaced role claim emitted by older tokens
// from the identity service. It is recognized alongside the short forms.
const LegacyRoleClaimURI = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

var defaultRoleClaimKeys = []string{"role", "roles", LegacyRoleClaimURI}

var defaultNameClaimKeys = []string{"unique_name", "name", "preferred_username", "sub", "email"}

// Identity is the decoded view of an access token payload.
//
// Identity values are derived, never stored: they are recomputed whenever the
// token changes and discarded when the token is absent or undecodable.
type Identity struct {
	Name      string
	Roles     []string
	ExpiresAt *time.Time
	Raw       map[string]any
}

// HasRole reports whether the identity carries the given role.
// A nil identity carries no roles.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity carries at least one of the given
// roles. An empty argument list always reports false.
func (id *Identity) HasAnyRole(roles ...string) bool {
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.HasRole(r) {
			return true
		}
	}
	return false
}

// Decoder extracts identities from raw tokens using a configurable set of
// recognized claim keys. The zero value is not usable; use [NewDecoder].
type Decoder struct {
	roleKeys []string
	nameKeys []string
	parser   *jwt.Parser
}

// Config overrides the claim keys the decoder recognizes. Empty slices keep
// the defaults, which match the keys the Keten identity service emits today.
type Config struct {
	RoleClaimKeys []string
	NameClaimKeys []string
}

// NewDecoder creates a decoder with the given configuration.
func NewDecoder(cfg Config) *Decoder {
	d := &Decoder{
		roleKeys: cfg.RoleClaimKeys,
		nameKeys: cfg.NameClaimKeys,
		parser:   jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
	if len(d.roleKeys) == 0 {
		d.roleKeys = defaultRoleClaimKeys
	}
	if len(d.nameKeys) == 0 {
		d.nameKeys = defaultNameClaimKeys
	}
	return d
}

var defaultDecoder = NewDecoder(Config{})

// Decode parses token with the default claim-key configuration.
// See [Decoder.Decode].
func Decode(token string) *Identity {
	return defaultDecoder.Decode(token)
}

// Decode parses the payload segment of token and returns the identity it
// describes, or nil when the token is empty or malformed in any way.
// The signature is not verified.
func (d *Decoder) Decode(token string) *Identity {
	if d == nil || token == "" {
		return nil
	}
	if strings.Count(token, ".") < 2 {
		return nil
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, mapClaims); err != nil {
		return nil
	}

	id := &Identity{
		Name:  d.extractName(mapClaims),
		Roles: d.extractRoles(mapClaims),
		Raw:   map[string]any(mapClaims),
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		id.ExpiresAt = &t
	}
	return id
}

func (d *Decoder) extractName(mapClaims jwt.MapClaims) string {
	for _, key := range d.nameKeys {
		if value, ok := mapClaims[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// extractRoles unions every recognized role claim. Values may be a single
// string or an array of strings; anything else is skipped.
func (d *Decoder) extractRoles(mapClaims jwt.MapClaims) []string {
	var roles []string
	seen := map[string]struct{}{}

	add := func(role string) {
		if role == "" {
			return
		}
		if _, dup := seen[role]; dup {
			return
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}

	for _, key := range d.roleKeys {
		switch value := mapClaims[key].(type) {
		case string:
			add(value)
		case []any:
			for _, item := range value {
				if role, ok := item.(string); ok {
					add(role)
				}
			}
		case []string:
			for _, role := range value {
				add(role)
			}
		}
	}
	return roles
}
