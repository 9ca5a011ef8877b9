package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/idx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newLinker(t *testing.T) (*LinkerService, *fakeClock) {
	t.Helper()
	invites, clock := newInviteService(t)
	return &LinkerService{Store: invites.Store, Invites: invites, Now: clock.Now}, clock
}

func mintCode(t *testing.T, l *LinkerService, code string, hours int) {
	t.Helper()
	l.Invites.NewCode = sequence(code)
	res, err := l.Invites.Generate(context.Background(), 1, hours, "owner")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
}

var newcomer = domain.Identity{
	Provider:          "github",
	ProviderAccountID: "4242",
	Email:             "Newcomer@Example.com",
	Name:              "New Comer",
}

func TestBeforeSignInExistingAccountNeedsNoCode(t *testing.T) {
	l, _ := newLinker(t)
	createAccount(t, l.Store, "newcomer@example.com", domain.RoleUser)

	require.NoError(t, l.BeforeSignIn(context.Background(), newcomer, ""))
}

func TestBeforeSignInNewIdentity(t *testing.T) {
	ctx := context.Background()
	l, clock := newLinker(t)
	mintCode(t, l, "GOOD2345", 24)
	mintCode(t, l, "SOON2345", 1)
	mintCode(t, l, "USED2345", 24)
	require.NoError(t, l.Invites.Consume(ctx, "USED2345", "someone@example.com"))
	clock.Advance(90 * time.Minute)

	tests := []struct {
		name string
		code string
		want error
	}{
		{"no code", "", ErrCodeRequired},
		{"unknown code", "NONE2345", ErrCodeInvalid},
		{"expired code", "SOON2345", ErrCodeInvalid},
		{"used code", "USED2345", ErrCodeInvalid},
		{"valid code", "good2345", nil},
		{"valid code twice", "GOOD2345", ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.BeforeSignIn(ctx, newcomer, tt.code)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBeforeSignInRequiresEmail(t *testing.T) {
	l, _ := newLinker(t)
	err := l.BeforeSignIn(context.Background(), domain.Identity{Provider: "github"}, "ANY22345")
	require.ErrorIs(t, err, ErrSignInFailed)
}

func TestCompleteSignInCreatesAndLinksAccount(t *testing.T) {
	ctx := context.Background()
	l, clock := newLinker(t)
	mintCode(t, l, "JOIN2345", 24)

	account, err := l.CompleteSignIn(ctx, newcomer, "JOIN2345")
	require.NoError(t, err)
	require.Equal(t, "newcomer@example.com", account.Email)
	require.Equal(t, domain.RoleUser, account.Role)
	require.Equal(t, "github", account.Provider)
	require.Equal(t, "4242", account.ProviderAccountID)
	require.True(t, clock.Now().Equal(account.CreatedAt))

	code, err := l.Store.Invites().GetInviteCode(ctx, "JOIN2345")
	require.NoError(t, err)
	require.True(t, code.Used)
	require.Equal(t, account.ID, code.UserID)
	require.Equal(t, "newcomer@example.com", code.RedeemedEmail)

	// A returning member skips the gate and gets the same account back.
	again, err := l.CompleteSignIn(ctx, newcomer, "")
	require.NoError(t, err)
	require.Equal(t, account.ID, again.ID)
}

func TestCompleteSignInRejectedLeavesNoAccount(t *testing.T) {
	ctx := context.Background()
	l, _ := newLinker(t)

	_, err := l.CompleteSignIn(ctx, newcomer, "")
	require.ErrorIs(t, err, ErrCodeRequired)

	accounts, err := l.Store.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

// accountsOverride swaps the account repository of an otherwise real store.
type accountsOverride struct {
	store.Store
	accounts store.Accounts
}

func (s accountsOverride) Accounts() store.Accounts { return s.accounts }

type failingCreate struct {
	store.Accounts
}

func (failingCreate) CreateAccount(context.Context, domain.Account) error {
	return errors.New("disk full")
}

// vanishingAccounts deletes the account right after the first lookup finds
// it, as an owner removing the member mid sign-in would.
type vanishingAccounts struct {
	store.Accounts
	once sync.Once
}

func (a *vanishingAccounts) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	account, err := a.Accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		a.once.Do(func() { _ = a.Accounts.DeleteAccountByEmail(ctx, email) })
	}
	return account, err
}

func TestCompleteSignInCreateFailureReleasesCode(t *testing.T) {
	ctx := context.Background()
	l, _ := newLinker(t)
	mintCode(t, l, "RETRY234", 24)

	healthy := l.Store
	l.Store = accountsOverride{Store: healthy, accounts: failingCreate{Accounts: healthy.Accounts()}}

	_, err := l.CompleteSignIn(ctx, newcomer, "RETRY234")
	require.ErrorIs(t, err, ErrSignInFailed)

	code, err := healthy.Invites().GetInviteCode(ctx, "RETRY234")
	require.NoError(t, err)
	require.False(t, code.Used, "code must not be burned by a failed create")
	require.Empty(t, code.RedeemedEmail)

	l.Store = healthy
	account, err := l.CompleteSignIn(ctx, newcomer, "RETRY234")
	require.NoError(t, err)

	code, err = healthy.Invites().GetInviteCode(ctx, "RETRY234")
	require.NoError(t, err)
	require.True(t, code.Used)
	require.Equal(t, account.ID, code.UserID)
}

func TestCompleteSignInAccountDeletedMidway(t *testing.T) {
	ctx := context.Background()
	l, _ := newLinker(t)
	createAccount(t, l.Store, "newcomer@example.com", domain.RoleUser)

	healthy := l.Store
	l.Store = accountsOverride{Store: healthy, accounts: &vanishingAccounts{Accounts: healthy.Accounts()}}

	_, err := l.CompleteSignIn(ctx, newcomer, "")
	require.ErrorIs(t, err, ErrCodeRequired)

	_, err = healthy.Accounts().GetAccountByEmail(ctx, "newcomer@example.com")
	require.ErrorIs(t, err, store.ErrNotFound, "no account without an invite")
}

// racingCreate lets a parallel callback win the insert for the same email.
type racingCreate struct {
	store.Accounts
	winner domain.Account
}

func (a racingCreate) CreateAccount(ctx context.Context, account domain.Account) error {
	if err := a.Accounts.CreateAccount(ctx, a.winner); err != nil {
		return err
	}
	return a.Accounts.CreateAccount(ctx, account)
}

func TestCompleteSignInLostCreateRaceReleasesCode(t *testing.T) {
	ctx := context.Background()
	l, clock := newLinker(t)
	mintCode(t, l, "RACE2345", 24)

	winner := domain.Account{
		ID:        idx.NewAt(clock.Now()).String(),
		Email:     "newcomer@example.com",
		Role:      domain.RoleUser,
		CreatedAt: clock.Now(),
		UpdatedAt: clock.Now(),
	}
	healthy := l.Store
	l.Store = accountsOverride{Store: healthy, accounts: racingCreate{Accounts: healthy.Accounts(), winner: winner}}

	got, err := l.CompleteSignIn(ctx, newcomer, "RACE2345")
	require.NoError(t, err)
	require.Equal(t, winner.ID, got.ID)

	code, err := healthy.Invites().GetInviteCode(ctx, "RACE2345")
	require.NoError(t, err)
	require.False(t, code.Used, "code was not spent on the winning account")
}

func TestSignInLogsNormalizedEmail(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := slogx.WithContext(context.Background(), logger)

	l, _ := newLinker(t)
	mintCode(t, l, "LOGS2345", 24)

	_, err := l.CompleteSignIn(ctx, domain.Identity{Provider: "github", Email: "Shouty@Example.com"}, "")
	require.ErrorIs(t, err, ErrCodeRequired)
	_, err = l.CompleteSignIn(ctx, newcomer, "LOGS2345")
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"email":"shouty@example.com"`)
	require.Contains(t, out, `"email":"newcomer@example.com"`)
	require.NotContains(t, out, "Shouty@Example.com")
	require.NotContains(t, out, "Newcomer@Example.com")
}

func TestAfterAccountCreatedDoesNotOverwriteLink(t *testing.T) {
	ctx := context.Background()
	l, _ := newLinker(t)
	mintCode(t, l, "LINK2345", 24)

	first := createAccount(t, l.Store, "first@example.com", domain.RoleUser)
	second := createAccount(t, l.Store, "second@example.com", domain.RoleUser)

	l.AfterAccountCreated(ctx, first, "link2345")
	l.AfterAccountCreated(ctx, second, "LINK2345")
	l.AfterAccountCreated(ctx, second, "")

	code, err := l.Store.Invites().GetInviteCode(ctx, "LINK2345")
	require.NoError(t, err)
	require.Equal(t, first.ID, code.UserID)
}

func TestSignInErrorCode(t *testing.T) {
	require.Equal(t, "code_required", SignInErrorCode(ErrCodeRequired))
	require.Equal(t, "code_invalid", SignInErrorCode(ErrCodeInvalid))
	require.Equal(t, "auth_error", SignInErrorCode(ErrSignInFailed))
	require.Equal(t, "auth_error", SignInErrorCode(errors.New("boom")))
}
