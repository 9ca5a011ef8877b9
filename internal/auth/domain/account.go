package domain

import (
	"strings"
	"time"
)

// Account is a gym member known to the system. Email is the join key between
// the identity provider and the role.
type Account struct {
	ID                string
	Email             string
	Name              string
	Role              Role
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identity is what an OAuth provider tells us about the person signing in.
type Identity struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
}

// NormalizeEmail lower-cases and trims an address so lookups are stable.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
