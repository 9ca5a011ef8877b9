package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a session token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)

	// VerifyExpired accepts tokens whose exp lies less than window in the
	// past. Signature and issuer checks are unchanged.
	VerifyExpired(token string, window time.Duration) (Claims, error)
}

// clockSkew is tolerated on nbf between instances.
const clockSkew = 30 * time.Second

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrUnknownKID = errors.New("jwtx: unknown kid")
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
