package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
)

const (
	defaultNumKeys = 3
	maxNumKeys     = 10
)

// KeyManager owns the active signing keys and the KeySet used to verify
// tokens signed by them. Signing picks one active key at random.
type KeyManager struct {
	Verifier *EdDSAVerifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures an in-memory KeyManager.
type KeyManagerOptions struct {
	// Issuer is written to and enforced on every session token.
	Issuer string

	// NumKeys is the number of signing keys. Defaults to 3, capped at 10.
	NumKeys int
}

// NewEphemeralKeyManager generates keys in memory only. Every session token
// becomes invalid when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, clampNumKeys(opts.NumKeys))
	for i := range cap(signers) {
		_, signer, err := generateKey()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: add key %d: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

func clampNumKeys(n int) int {
	if n <= 0 {
		return defaultNumKeys
	}
	return min(n, maxNumKeys)
}

// IsReady reports whether the manager can both sign and verify.
func (km *KeyManager) IsReady() bool {
	return km.NumSigners() > 0 && km.KeySet.IsReady()
}

// Sign signs claims with a randomly chosen active key.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if len(km.signers) == 0 {
		return "", errors.New("jwtx: no active signing key")
	}
	return km.signers[rand.IntN(len(km.signers))].Sign(claims)
}

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// generateKey returns a new Ed25519 key as PEM along with its signer.
func generateKey() ([]byte, Signer, error) {
	kid, err := newKeyID()
	if err != nil {
		return nil, nil, err
	}
	pemData, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, err
	}
	signer, err := NewSignerEdDSA(kid, pemData)
	if err != nil {
		return nil, nil, err
	}
	return pemData, signer, nil
}

// newKeyID returns "gymgate-" followed by 128 random bits.
func newKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate key ID: %w", err)
	}
	return "gymgate-" + token, nil
}
