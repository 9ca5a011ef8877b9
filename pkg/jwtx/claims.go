package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session cookie stays valid without a refresh.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Claims carry the session identity. Email and Role are copied from the
// account when the token is minted and are not re-synced afterwards.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewSessionClaims builds claims for a freshly minted session token.
func NewSessionClaims(subject, email, role string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
		Role:  role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks iss. An empty expected value is not enforced.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTimes checks exp and nbf against now. Tokens that expired less than
// grace ago are still accepted.
func (c *Claims) ValidateTimes(now time.Time, grace time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Add(grace)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Add(clockSkew).Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
