package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/idx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrLastOwner       = errors.New("gym must keep at least one owner")
)

// AccountService is the owner's member management.
type AccountService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.Store.Accounts().ListAccounts(ctx)
}

func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	a, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, err
}

// Provision creates an account ahead of its first sign-in so the member can
// skip the invite gate. Owners cannot be provisioned this way.
func (s *AccountService) Provision(ctx context.Context, email string, role domain.Role) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return domain.Account{}, ErrInvalidEmail
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return domain.Account{}, ErrInvalidRole
	}

	now := s.now()
	account := domain.Account{
		ID:        idx.NewAt(now).String(),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	slogx.FromContext(ctx).Info("account provisioned",
		slog.String("user_id", account.ID),
		slog.String("email", email),
		slog.String("role", role.String()),
	)
	return account, nil
}

// ChangeRole sets the stored role. Sessions pick it up on their next refresh.
// The only remaining owner cannot be demoted.
func (s *AccountService) ChangeRole(ctx context.Context, id string, role domain.Role) (domain.Account, error) {
	if !role.Valid() {
		return domain.Account{}, ErrInvalidRole
	}

	var updated domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Accounts().GetAccountByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Role == domain.RoleOwner && role != domain.RoleOwner {
			if err := requireAnotherOwner(ctx, tx); err != nil {
				return err
			}
		}
		if err := tx.Accounts().UpdateAccountRole(ctx, id, role, s.now()); err != nil {
			return err
		}
		updated, err = tx.Accounts().GetAccountByID(ctx, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		case errors.Is(err, ErrLastOwner):
			return domain.Account{}, err
		}
		return domain.Account{}, fmt.Errorf("update role: %w", err)
	}

	slogx.FromContext(ctx).Info("account role changed",
		slog.String("user_id", id),
		slog.String("role", role.String()),
	)
	return updated, nil
}

// Delete removes the account for email. The only remaining owner cannot be
// deleted.
func (s *AccountService) Delete(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Accounts().GetAccountByEmail(ctx, email)
		if err != nil {
			return err
		}
		if current.Role == domain.RoleOwner {
			if err := requireAnotherOwner(ctx, tx); err != nil {
				return err
			}
		}
		return tx.Accounts().DeleteAccountByEmail(ctx, email)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrAccountNotFound
		case errors.Is(err, ErrLastOwner):
			return err
		}
		return fmt.Errorf("delete account: %w", err)
	}
	slogx.FromContext(ctx).Info("account deleted", slog.String("email", email))
	return nil
}

func requireAnotherOwner(ctx context.Context, tx store.Tx) error {
	owners, err := tx.Accounts().CountAccountsByRole(ctx, domain.RoleOwner)
	if err != nil {
		return fmt.Errorf("count owners: %w", err)
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}

// RoleOf returns the stored role for an account id. It has the shape of
// httpx.RoleLookup.
func (s *AccountService) RoleOf(ctx context.Context, id string) (string, error) {
	a, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		return "", err
	}
	return a.Role.String(), nil
}

// BootstrapOwner makes sure email owns the gym when nobody does yet. An
// existing account is promoted; otherwise one is created.
func (s *AccountService) BootstrapOwner(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		owners, err := tx.Accounts().CountAccountsByRole(ctx, domain.RoleOwner)
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners > 0 {
			log.Debug("owner already present, skipping bootstrap")
			return nil
		}

		now := s.now()
		existing, err := tx.Accounts().GetAccountByEmail(ctx, email)
		switch {
		case err == nil:
			if err := tx.Accounts().UpdateAccountRole(ctx, existing.ID, domain.RoleOwner, now); err != nil {
				return fmt.Errorf("promote owner: %w", err)
			}
			log.Info("promoted bootstrap owner", slog.String("user_id", existing.ID), slog.String("email", email))
			return nil
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get account: %w", err)
		}

		owner := domain.Account{
			ID:        idx.NewAt(now).String(),
			Email:     email,
			Role:      domain.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Accounts().CreateAccount(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		log.Info("created bootstrap owner", slog.String("user_id", owner.ID), slog.String("email", email))
		return nil
	})
}
