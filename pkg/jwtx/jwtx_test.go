package jwtx_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://gym.example.test"

func newManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 2})
	require.NoError(t, err)
	return km
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	km := newManager(t)
	require.True(t, km.IsReady())
	require.Equal(t, 2, km.NumSigners())

	now := time.Now().UTC()
	token, err := km.Sign(jwtx.NewSessionClaims("01HX", "lifter@example.com", "admin", time.Hour, testIssuer, now))
	require.NoError(t, err)

	claims, err := km.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01HX", claims.Subject)
	require.Equal(t, "lifter@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	km := newManager(t)
	token, err := km.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "user", time.Hour, "someone-else", time.Now()))
	require.NoError(t, err)

	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	ours := newManager(t)
	theirs := newManager(t)

	token, err := theirs.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "owner", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)

	_, err = ours.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	km := newManager(t)
	token, err := km.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "user", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	other, err := km.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "owner", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]

	_, err = km.Verifier.Verify(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestVerifyExpiry(t *testing.T) {
	km := newManager(t)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	token, err := km.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "user", time.Hour, testIssuer, issued))
	require.NoError(t, err)

	km.Verifier.Now = func() time.Time { return issued.Add(30 * time.Minute) }
	_, err = km.Verifier.Verify(token)
	require.NoError(t, err)

	km.Verifier.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = km.Verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	claims, err := km.Verifier.VerifyExpired(token, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", claims.Email)

	km.Verifier.Now = func() time.Time { return issued.Add(48 * time.Hour) }
	_, err = km.Verifier.VerifyExpired(token, 24*time.Hour)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	km := newManager(t)
	_, err := km.Verifier.Verify("not.a.token")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestKeySetPublishesEd25519Keys(t *testing.T) {
	km := newManager(t)
	jwks := km.KeySet.PublicJWKS()
	require.Len(t, jwks.Keys, 2)
	for _, k := range jwks.Keys {
		require.Equal(t, "OKP", k.Kty)
		require.Equal(t, "Ed25519", k.Crv)
		require.Equal(t, "EdDSA", k.Alg)
		require.True(t, strings.HasPrefix(k.Kid, "gymgate-"))
	}

	// A verifier rebuilt from the published JWKS accepts our tokens.
	remote := jwtx.NewKeySet()
	for _, k := range jwks.Keys {
		require.NoError(t, remote.AddJWK(k))
	}
	token, err := km.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "user", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)
	_, err = jwtx.NewVerifierEdDSA(remote, testIssuer).Verify(token)
	require.NoError(t, err)
}

func TestKeySetRejectsUnsupportedJWK(t *testing.T) {
	ks := jwtx.NewKeySet()
	require.Error(t, ks.AddJWK(jwtx.JWK{Kty: "RSA", Kid: "r1"}))
	require.Error(t, ks.AddJWK(jwtx.JWK{Kty: "OKP", Crv: "Ed25519", Kid: "short", X: "AAAA"}))
	require.False(t, ks.IsReady())
}

type memKeyStore struct {
	mu   sync.Mutex
	keys []jwtx.SigningKeyRecord
}

func (m *memKeyStore) ListSigningKeys(context.Context) ([]jwtx.SigningKeyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]jwtx.SigningKeyRecord(nil), m.keys...), nil
}

func (m *memKeyStore) CreateSigningKey(_ context.Context, k jwtx.SigningKeyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, k)
	return nil
}

func TestPersistentKeyManagerSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	sealer, err := cryptox.NewKeyCipher([]byte("persistent-master-key-0123456789"))
	require.NoError(t, err)
	store := &memKeyStore{}

	opts := jwtx.PersistentKeyManagerOptions{Store: store, Sealer: sealer, Issuer: testIssuer, NumKeys: 2}

	first, err := jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.keys, 2)
	for _, k := range store.keys {
		require.NotContains(t, string(k.PrivateKeyEncrypted), "PRIVATE KEY")
	}

	token, err := first.Sign(jwtx.NewSessionClaims("01HX", "a@example.com", "owner", time.Hour, testIssuer, time.Now()))
	require.NoError(t, err)

	second, err := jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.keys, 2, "no new keys when enough are active")

	claims, err := second.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "owner", claims.Role)
}

func TestPersistentKeyManagerReplacesExpiredKeys(t *testing.T) {
	ctx := context.Background()
	sealer, err := cryptox.NewKeyCipher([]byte("persistent-master-key-0123456789"))
	require.NoError(t, err)
	store := &memKeyStore{}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := jwtx.PersistentKeyManagerOptions{
		Store: store, Sealer: sealer, Issuer: testIssuer, NumKeys: 1,
		Lifetime: 24 * time.Hour,
		Now:      func() time.Time { return start },
	}
	_, err = jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.keys, 1)

	opts.Now = func() time.Time { return start.Add(48 * time.Hour) }
	km, err := jwtx.NewPersistentKeyManager(ctx, opts)
	require.NoError(t, err)
	require.Len(t, store.keys, 2)
	require.Equal(t, 1, km.NumSigners())
	require.Len(t, km.KeySet.PublicJWKS().Keys, 2, "expired key still verifies")
}

func TestPersistentKeyManagerRequiresSealer(t *testing.T) {
	_, err := jwtx.NewPersistentKeyManager(context.Background(), jwtx.PersistentKeyManagerOptions{
		Store:  &memKeyStore{},
		Issuer: testIssuer,
	})
	require.Error(t, err)
}
