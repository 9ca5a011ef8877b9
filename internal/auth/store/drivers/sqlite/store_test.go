package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gymgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedAccount(t *testing.T, s store.Store, email string, role domain.Role) domain.Account {
	t.Helper()
	a := domain.Account{
		ID:        idx.New().String(),
		Email:     email,
		Role:      role,
		Provider:  "github",
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func seedCode(t *testing.T, s store.Store, code string, expires time.Time) {
	t.Helper()
	ok, err := s.Invites().CreateInviteCode(context.Background(), domain.InviteCode{
		Code:      code,
		ExpiresAt: expires,
		CreatedAt: t0,
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAccountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a := seedAccount(t, s, "lifter@example.com", domain.RoleUser)

	got, err := s.Accounts().GetAccountByEmail(ctx, "lifter@example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, domain.RoleUser, got.Role)
	require.Equal(t, "github", got.Provider)
	require.True(t, t0.Equal(got.CreatedAt))

	byID, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, got, byID)

	_, err = s.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	s := newStore(t)
	seedAccount(t, s, "dup@example.com", domain.RoleUser)

	err := s.Accounts().CreateAccount(context.Background(), domain.Account{
		ID: idx.New().String(), Email: "dup@example.com", Role: domain.RoleAdmin, CreatedAt: t0, UpdatedAt: t0,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAccount(t, s, "coach@example.com", domain.RoleUser)

	require.NoError(t, s.Accounts().UpdateAccountRole(ctx, a.ID, domain.RoleAdmin, t0.Add(time.Hour)))
	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.True(t, t0.Add(time.Hour).Equal(got.UpdatedAt))

	n, err := s.Accounts().CountAccountsByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.ErrorIs(t, s.Accounts().UpdateAccountRole(ctx, "missing", domain.RoleAdmin, t0), store.ErrNotFound)

	require.NoError(t, s.Accounts().DeleteAccountByEmail(ctx, "coach@example.com"))
	require.ErrorIs(t, s.Accounts().DeleteAccountByEmail(ctx, "coach@example.com"), store.ErrNotFound)
}

func TestInviteCodeInsertSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCode(t, s, "AAAA2222", t0.Add(time.Hour))

	ok, err := s.Invites().CreateInviteCode(ctx, domain.InviteCode{Code: "AAAA2222", ExpiresAt: t0.Add(2 * time.Hour), CreatedAt: t0})
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.Invites().GetInviteCode(ctx, "AAAA2222")
	require.NoError(t, err)
	require.True(t, t0.Add(time.Hour).Equal(got.ExpiresAt), "original row untouched")
	require.False(t, got.Used)
	require.Nil(t, got.UsedAt)
}

func TestConsumeInviteCode(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCode(t, s, "BBBB3333", t0.Add(time.Hour))
	seedCode(t, s, "CCCC4444", t0.Add(time.Hour))

	ok, err := s.Invites().ConsumeInviteCode(ctx, "BBBB3333", "new@example.com", t0)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Invites().GetInviteCode(ctx, "BBBB3333")
	require.NoError(t, err)
	require.True(t, got.Used)
	require.Equal(t, "new@example.com", got.RedeemedEmail)
	require.NotNil(t, got.UsedAt)

	ok, err = s.Invites().ConsumeInviteCode(ctx, "BBBB3333", "other@example.com", t0)
	require.NoError(t, err)
	require.False(t, ok, "second consumption loses")

	ok, err = s.Invites().ConsumeInviteCode(ctx, "CCCC4444", "late@example.com", t0.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, ok, "expiry boundary is exclusive")

	ok, err = s.Invites().ConsumeInviteCode(ctx, "NOPE0000", "x@example.com", t0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsumeInviteCodeConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCode(t, s, "DDDD5555", t0.Add(time.Hour))

	const racers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Invites().ConsumeInviteCode(ctx, "DDDD5555", fmt.Sprintf("r%d@example.com", i), t0)
			require.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
}

func TestReleaseInviteCode(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCode(t, s, "KKKK2222", t0.Add(time.Hour))

	ok, err := s.Invites().ConsumeInviteCode(ctx, "KKKK2222", "new@example.com", t0)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Invites().ReleaseInviteCode(ctx, "KKKK2222", "other@example.com")
	require.NoError(t, err)
	require.False(t, ok, "only the redeeming email may release")

	ok, err = s.Invites().ReleaseInviteCode(ctx, "KKKK2222", "new@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Invites().GetInviteCode(ctx, "KKKK2222")
	require.NoError(t, err)
	require.False(t, got.Used)
	require.Nil(t, got.UsedAt)
	require.Empty(t, got.RedeemedEmail)

	ok, err = s.Invites().ConsumeInviteCode(ctx, "KKKK2222", "new@example.com", t0)
	require.NoError(t, err)
	require.True(t, ok, "released code is redeemable again")

	a := seedAccount(t, s, "new@example.com", domain.RoleUser)
	_, err = s.Invites().LinkInviteCode(ctx, "KKKK2222", a.ID)
	require.NoError(t, err)

	ok, err = s.Invites().ReleaseInviteCode(ctx, "KKKK2222", "new@example.com")
	require.NoError(t, err)
	require.False(t, ok, "linked code stays used")
}

func TestLinkInviteCodeOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAccount(t, s, "first@example.com", domain.RoleUser)
	b := seedAccount(t, s, "second@example.com", domain.RoleUser)
	seedCode(t, s, "EEEE6666", t0.Add(time.Hour))

	ok, err := s.Invites().LinkInviteCode(ctx, "EEEE6666", a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Invites().LinkInviteCode(ctx, "EEEE6666", b.ID)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.Invites().GetInviteCode(ctx, "EEEE6666")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.UserID)
}

func TestLinkRedeemedInviteCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCode(t, s, "FFFF7777", t0.Add(time.Hour))
	seedCode(t, s, "GGGG8888", t0.Add(time.Hour))

	_, err := s.Invites().ConsumeInviteCode(ctx, "FFFF7777", "orphan@example.com", t0)
	require.NoError(t, err)
	_, err = s.Invites().ConsumeInviteCode(ctx, "GGGG8888", "never@example.com", t0)
	require.NoError(t, err)

	n, err := s.Invites().LinkRedeemedInviteCodes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "no accounts yet")

	a := seedAccount(t, s, "orphan@example.com", domain.RoleUser)

	n, err = s.Invites().LinkRedeemedInviteCodes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := s.Invites().GetInviteCode(ctx, "FFFF7777")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.UserID)

	n, err = s.Invites().LinkRedeemedInviteCodes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "idempotent")
}

func TestDeletingAccountKeepsInviteCode(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAccount(t, s, "leaver@example.com", domain.RoleUser)
	seedCode(t, s, "HHHH9999", t0.Add(time.Hour))
	_, err := s.Invites().LinkInviteCode(ctx, "HHHH9999", a.ID)
	require.NoError(t, err)

	require.NoError(t, s.Accounts().DeleteAccountByEmail(ctx, "leaver@example.com"))

	got, err := s.Invites().GetInviteCode(ctx, "HHHH9999")
	require.NoError(t, err)
	require.Empty(t, got.UserID)
}

func TestListInviteCodesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for i, code := range []string{"JJJJ2222", "KKKK3333", "LLLL4444"} {
		ok, err := s.Invites().CreateInviteCode(ctx, domain.InviteCode{
			Code: code, ExpiresAt: t0.Add(time.Hour), CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.True(t, ok)
	}

	got, err := s.Invites().ListInviteCodes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "LLLL4444", got[0].Code)
	require.Equal(t, "KKKK3333", got[1].Code)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Invites().CreateInviteCode(ctx, domain.InviteCode{Code: "MMMM5555", ExpiresAt: t0, CreatedAt: t0})
		require.NoError(t, err)
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = s.Invites().GetInviteCode(ctx, "MMMM5555")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSigningKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, kid := range []string{"old", "new"} {
		require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, domain.SigningKey{
			ID:                  idx.New().String(),
			Kid:                 kid,
			Algorithm:           "EdDSA",
			PrivateKeyEncrypted: []byte{1, 2, 3},
			CreatedAt:           t0.Add(time.Duration(i) * time.Hour),
			ExpiresAt:           t0.Add(time.Duration(i+1) * 24 * time.Hour),
		}))
	}

	keys, err := s.SigningKeys().ListSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Equal(t, "new", keys[0].Kid)

	n, err := s.SigningKeys().DeleteSigningKeysExpiredBefore(ctx, t0.Add(36*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	keys, err = s.SigningKeys().ListSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "new", keys[0].Kid)
}
