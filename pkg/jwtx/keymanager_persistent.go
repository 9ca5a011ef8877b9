package jwtx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gymgate/pkg/idx"
)

// DefaultKeyLifetime is how long a persisted key signs new tokens.
const DefaultKeyLifetime = 90 * 24 * time.Hour

// SigningKeyRecord is a stored signing key. Kept free of the domain package so
// jwtx stays importable on its own.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// KeyStore is the storage needed by the persistent key manager.
type KeyStore interface {
	// ListSigningKeys returns every stored key that has not been purged.
	ListSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// KeySealer encrypts private keys at rest. *cryptox.KeyCipher satisfies it.
type KeySealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// PersistentKeyManagerOptions configures a KeyManager backed by storage.
type PersistentKeyManagerOptions struct {
	Store  KeyStore
	Sealer KeySealer
	Issuer string

	// NumKeys is the target number of active keys. Defaults to 3.
	NumKeys int

	// Lifetime is how long a new key signs. Defaults to DefaultKeyLifetime.
	// Expired keys keep verifying until they are purged from storage.
	Lifetime time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewPersistentKeyManager loads every stored key for verification, signs with
// the unexpired ones, and tops up to NumKeys active keys.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil || opts.Sealer == nil {
		return nil, errors.New("jwtx: Store and Sealer are required for persistent key manager")
	}
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultKeyLifetime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	want := clampNumKeys(opts.NumKeys)
	now := opts.Now().UTC()

	records, err := opts.Store.ListSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load keys: %w", err)
	}

	keyset := NewKeySet()
	var active []Signer
	for _, rec := range records {
		if rec.Algorithm != "EdDSA" {
			return nil, fmt.Errorf("jwtx: key %s uses unsupported algorithm %q", rec.Kid, rec.Algorithm)
		}

		pemData, err := opts.Sealer.Open(rec.PrivateKeyEncrypted)
		if err != nil {
			return nil, fmt.Errorf("jwtx: decrypt key %s: %w", rec.Kid, err)
		}
		signer, err := NewSignerEdDSA(rec.Kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: load key %s: %w", rec.Kid, err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: add key %s: %w", rec.Kid, err)
		}

		if now.Before(rec.ExpiresAt) {
			active = append(active, signer)
		}
	}

	for len(active) < want {
		pemData, signer, err := generateKey()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key: %w", err)
		}
		sealed, err := opts.Sealer.Seal(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: encrypt key: %w", err)
		}

		rec := SigningKeyRecord{
			ID:                  idx.NewAt(now).String(),
			Kid:                 signer.KID(),
			Algorithm:           signer.Alg(),
			PrivateKeyEncrypted: sealed,
			CreatedAt:           now,
			ExpiresAt:           now.Add(opts.Lifetime),
		}
		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: store key: %w", err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: add key %s: %w", rec.Kid, err)
		}
		active = append(active, signer)
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer),
		KeySet:   keyset,
		signers:  active,
	}, nil
}
