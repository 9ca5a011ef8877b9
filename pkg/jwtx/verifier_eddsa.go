package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var _ Verifier = (*EdDSAVerifier)(nil)

// EdDSAVerifier validates tokens signed by any Ed25519 key in a KeySet.
type EdDSAVerifier struct {
	keys   *KeySet
	issuer string

	// Now is the verification clock. Defaults to time.Now.
	Now func() time.Time
}

// NewVerifierEdDSA creates a verifier backed by keys.
func NewVerifierEdDSA(keys *KeySet, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{keys: keys, issuer: issuer, Now: time.Now}
}

func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	return v.verify(tokenStr, 0)
}

func (v *EdDSAVerifier) VerifyExpired(tokenStr string, window time.Duration) (Claims, error) {
	return v.verify(tokenStr, window)
}

func (v *EdDSAVerifier) verify(tokenStr string, grace time.Duration) (Claims, error) {
	// Time checks run below against v.Now so callers can pin the clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownKID):
		return Claims{}, ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateTimes(v.Now().UTC(), grace); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" && claims.Email == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}
