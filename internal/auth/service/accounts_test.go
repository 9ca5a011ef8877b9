package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	return &AccountService{Store: newTestStore(t), Now: newClock().Now}
}

func TestProvision(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)

	a, err := svc.Provision(ctx, " Trainer@Example.com ", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "trainer@example.com", a.Email)
	require.Equal(t, domain.RoleAdmin, a.Role)

	_, err = svc.Provision(ctx, "trainer@example.com", domain.RoleUser)
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Provision(ctx, "not-an-email", domain.RoleUser)
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Provision(ctx, "boss@example.com", domain.RoleOwner)
	require.ErrorIs(t, err, ErrInvalidRole)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)
	a := createAccount(t, svc.Store, "m@example.com", domain.RoleUser)

	updated, err := svc.ChangeRole(ctx, a.ID, domain.RoleOwner)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, updated.Role)

	_, err = svc.ChangeRole(ctx, a.ID, domain.Role("coach"))
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.ChangeRole(ctx, "missing", domain.RoleUser)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeleteAndRoleOf(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)
	a := createAccount(t, svc.Store, "gone@example.com", domain.RoleAdmin)

	role, err := svc.RoleOf(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "admin", role)

	require.NoError(t, svc.Delete(ctx, "GONE@example.com"))
	require.ErrorIs(t, svc.Delete(ctx, "gone@example.com"), ErrAccountNotFound)

	_, err = svc.RoleOf(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Get(ctx, a.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLastOwnerIsKept(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(t)
	owner := createAccount(t, svc.Store, "owner@example.com", domain.RoleOwner)

	_, err := svc.ChangeRole(ctx, owner.ID, domain.RoleAdmin)
	require.ErrorIs(t, err, ErrLastOwner)
	require.ErrorIs(t, svc.Delete(ctx, "owner@example.com"), ErrLastOwner)

	got, err := svc.Store.Accounts().GetAccountByID(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, got.Role)

	_, err = svc.ChangeRole(ctx, owner.ID, domain.RoleOwner)
	require.NoError(t, err, "keeping the owner role is not a demotion")

	// With a second owner in place either one may step down.
	second := createAccount(t, svc.Store, "second@example.com", domain.RoleOwner)
	demoted, err := svc.ChangeRole(ctx, owner.ID, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, demoted.Role)

	require.ErrorIs(t, svc.Delete(ctx, "second@example.com"), ErrLastOwner)
	_, err = svc.ChangeRole(ctx, second.ID, domain.RoleOwner)
	require.NoError(t, err)
}

func TestBootstrapOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("creates owner", func(t *testing.T) {
		svc := newAccountService(t)
		require.NoError(t, svc.BootstrapOwner(ctx, "Owner@Example.com"))
		require.NoError(t, svc.BootstrapOwner(ctx, "owner@example.com"))

		n, err := svc.Store.Accounts().CountAccountsByRole(ctx, domain.RoleOwner)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("promotes existing account", func(t *testing.T) {
		svc := newAccountService(t)
		a := createAccount(t, svc.Store, "owner@example.com", domain.RoleUser)
		require.NoError(t, svc.BootstrapOwner(ctx, "owner@example.com"))

		got, err := svc.Store.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleOwner, got.Role)
	})

	t.Run("leaves existing owner alone", func(t *testing.T) {
		svc := newAccountService(t)
		createAccount(t, svc.Store, "first@example.com", domain.RoleOwner)
		require.NoError(t, svc.BootstrapOwner(ctx, "second@example.com"))

		_, err := svc.Store.Accounts().GetAccountByEmail(ctx, "second@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("empty email is a no-op", func(t *testing.T) {
		svc := newAccountService(t)
		require.NoError(t, svc.BootstrapOwner(ctx, ""))
	})
}
