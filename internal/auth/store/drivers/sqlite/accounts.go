package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/internal/auth/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:                a.ID,
		Email:             a.Email,
		Name:              a.Name,
		Role:              string(a.Role),
		Provider:          mapStringNull(a.Provider),
		ProviderAccountID: mapStringNull(a.ProviderAccountID),
		CreatedAt:         toMillis(a.CreatedAt),
		UpdatedAt:         toMillis(a.UpdatedAt),
	})
	return mapConflict(err)
}

func (r *accountsRepo) UpdateAccountRole(ctx context.Context, id string, role domain.Role, now time.Time) error {
	n, err := r.q.UpdateAccountRole(ctx, gen.UpdateAccountRoleParams{
		Role:      string(role),
		UpdatedAt: toMillis(now),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) DeleteAccountByEmail(ctx context.Context, email string) error {
	n, err := r.q.DeleteAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = mapAccount(row)
	}
	return accounts, nil
}

func (r *accountsRepo) CountAccountsByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.q.CountAccountsByRole(ctx, string(role))
}
