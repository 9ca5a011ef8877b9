package domain

import "time"

// SigningKey is a session-token signing key persisted for restarts. The
// private key is sealed with the master key.
type SigningKey struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time

	// ExpiresAt ends signing. The key keeps verifying until purged.
	ExpiresAt time.Time
}

func (k SigningKey) IsActive(now time.Time) bool {
	return now.Before(k.ExpiresAt)
}
