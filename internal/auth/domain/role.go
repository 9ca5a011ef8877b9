package domain

import "strings"

// Role is the authorization level stored on an account and copied into the
// session token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// ParseRole accepts any casing and surrounding whitespace.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// AdminRoles may use the admin area. Owners are admins too.
var AdminRoles = []string{string(RoleAdmin), string(RoleOwner)}

// OwnerRoles may manage members and invites.
var OwnerRoles = []string{string(RoleOwner)}
