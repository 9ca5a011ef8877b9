package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// MasterKeyEnv is consulted when no master key file is configured.
const MasterKeyEnv = "GYMGATE_MASTER_KEY"

const keyCipherInfo = "gymgate/signing-keys/v1"

// minMasterKeyLen guards against obviously weak master secrets.
const minMasterKeyLen = 16

var (
	ErrNoMasterKey   = errors.New("cryptox: no master key configured")
	ErrWeakMasterKey = errors.New("cryptox: master key too short")
)

// KeyCipher seals private key material at rest with AES-256-GCM. The AES key
// is derived from the master secret with HKDF-SHA256.
//
// Sealed format: [12-byte nonce][ciphertext][16-byte tag].
type KeyCipher struct {
	aead cipher.AEAD
}

// NewKeyCipher derives the AES key from secret.
func NewKeyCipher(secret []byte) (*KeyCipher, error) {
	if len(secret) < minMasterKeyLen {
		return nil, ErrWeakMasterKey
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyCipherInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &KeyCipher{aead: aead}, nil
}

// LoadKeyCipher reads the master secret from path, or from MasterKeyEnv when
// path is empty.
func LoadKeyCipher(path string) (*KeyCipher, error) {
	var secret []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		secret = []byte(strings.TrimSpace(string(data)))
	} else if env := os.Getenv(MasterKeyEnv); env != "" {
		secret = []byte(env)
	} else {
		return nil, ErrNoMasterKey
	}
	return NewKeyCipher(secret)
}

// Seal encrypts plain with a fresh random nonce.
func (c *KeyCipher) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

// Open reverses Seal and authenticates the result.
func (c *KeyCipher) Open(sealed []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(sealed) < n+c.aead.Overhead() {
		return nil, errors.New("cryptox: ciphertext too short")
	}
	plain, err := c.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plain, nil
}
