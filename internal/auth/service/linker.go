package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
	"github.com/aussiebroadwan/gymgate/pkg/idx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

// Sign-in outcomes surfaced to the browser as /signin?error=<code>.
var (
	ErrCodeRequired = errors.New("invite code required")
	ErrCodeInvalid  = errors.New("invite code invalid")
	ErrSignInFailed = errors.New("sign-in failed")
)

// SignInErrorCode maps a LinkerService error to the marker shown on the
// sign-in page.
func SignInErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrCodeRequired):
		return "code_required"
	case errors.Is(err, ErrCodeInvalid):
		return "code_invalid"
	default:
		return "auth_error"
	}
}

// LinkerService decides whether an identity returned by an OAuth provider may
// sign in. Known emails pass straight through; new emails must spend a
// pending invite code.
type LinkerService struct {
	Store   store.Store
	Invites *InviteService
	Now     func() time.Time
}

func (s *LinkerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// admission records how an identity got through the gate.
type admission int

const (
	admittedMember admission = iota + 1
	admittedByInvite
)

// BeforeSignIn admits id when an account already exists for the email, or
// when pendingCode is valid and this caller wins its consumption.
func (s *LinkerService) BeforeSignIn(ctx context.Context, id domain.Identity, pendingCode string) error {
	_, err := s.admit(ctx, id, pendingCode)
	return err
}

func (s *LinkerService) admit(ctx context.Context, id domain.Identity, pendingCode string) (admission, error) {
	email := domain.NormalizeEmail(id.Email)
	log := slogx.FromContext(ctx).With(slog.String("email", email))
	if email == "" {
		log.Warn("identity without email")
		return 0, ErrSignInFailed
	}

	_, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err == nil {
		return admittedMember, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up account", slog.Any("error", err))
		return 0, ErrSignInFailed
	}

	if pendingCode == "" {
		log.Info("new identity without invite code")
		return 0, ErrCodeRequired
	}

	if _, err := s.Invites.Validate(ctx, pendingCode); err != nil {
		if errors.Is(err, ErrInviteInvalid) {
			log.Info("rejected invite code", slogx.Secret("code", pendingCode))
			return 0, ErrCodeInvalid
		}
		log.Error("failed to validate invite code",
			slogx.Secret("code", pendingCode),
			slog.Any("error", err),
		)
		return 0, ErrSignInFailed
	}

	if err := s.Invites.Consume(ctx, pendingCode, email); err != nil {
		if errors.Is(err, ErrInviteInvalid) {
			log.Info("invite code consumed concurrently", slogx.Secret("code", pendingCode))
			return 0, ErrCodeInvalid
		}
		log.Error("failed to consume invite code",
			slogx.Secret("code", pendingCode),
			slog.Any("error", err),
		)
		return 0, ErrSignInFailed
	}
	return admittedByInvite, nil
}

// releaseCode hands back a code this sign-in consumed but did not spend on a
// new account.
func (s *LinkerService) releaseCode(ctx context.Context, pendingCode, email string) {
	if _, err := s.Invites.Release(ctx, pendingCode, email); err != nil {
		slogx.FromContext(ctx).Error("failed to release invite code",
			slog.String("email", email),
			slogx.Secret("code", pendingCode),
			slog.Any("error", err),
		)
	}
}

// AfterAccountCreated records which account spent pendingCode. Failures are
// logged and otherwise ignored; the housekeeping reconciler retries later.
func (s *LinkerService) AfterAccountCreated(ctx context.Context, account domain.Account, pendingCode string) {
	if pendingCode == "" {
		return
	}
	log := slogx.FromContext(ctx)

	ok, err := s.Store.Invites().LinkInviteCode(ctx, cryptox.NormalizeCode(pendingCode), account.ID)
	switch {
	case err != nil:
		log.Error("failed to link invite code",
			slogx.Secret("code", pendingCode),
			slog.String("user_id", account.ID),
			slog.Any("error", err),
		)
	case !ok:
		log.Warn("invite code not linked",
			slogx.Secret("code", pendingCode),
			slog.String("user_id", account.ID),
		)
	default:
		log.Debug("invite code linked",
			slogx.Secret("code", pendingCode),
			slog.String("user_id", account.ID),
		)
	}
}

// CompleteSignIn runs the whole callback: admission, find-or-create of the
// account, then the best-effort link. An account is only ever created on the
// strength of a code this call consumed; when no account ends up using that
// code it is released again.
func (s *LinkerService) CompleteSignIn(ctx context.Context, id domain.Identity, pendingCode string) (domain.Account, error) {
	path, err := s.admit(ctx, id, pendingCode)
	if err != nil {
		return domain.Account{}, err
	}

	email := domain.NormalizeEmail(id.Email)
	log := slogx.FromContext(ctx).With(slog.String("email", email))

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if path == admittedByInvite {
			// A parallel callback created the account first.
			s.releaseCode(ctx, pendingCode, email)
		}
		return account, nil
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up account", slog.Any("error", err))
		if path == admittedByInvite {
			s.releaseCode(ctx, pendingCode, email)
		}
		return domain.Account{}, ErrSignInFailed
	case path != admittedByInvite:
		// Admitted as a member, but the account was deleted since.
		log.Warn("account removed during sign-in")
		return domain.Account{}, ErrCodeRequired
	}

	now := s.now()
	account = domain.Account{
		ID:                idx.NewAt(now).String(),
		Email:             email,
		Name:              id.Name,
		Role:              domain.RoleUser,
		Provider:          id.Provider,
		ProviderAccountID: id.ProviderAccountID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a parallel callback for the same email.
			existing, gerr := s.Store.Accounts().GetAccountByEmail(ctx, email)
			if gerr == nil {
				s.releaseCode(ctx, pendingCode, email)
				return existing, nil
			}
			err = errors.Join(err, gerr)
		}
		log.Error("failed to create account after consuming invite code",
			slogx.Secret("code", pendingCode),
			slog.Any("error", err),
		)
		s.releaseCode(ctx, pendingCode, email)
		return domain.Account{}, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}

	log.Info("account created",
		slog.String("user_id", account.ID),
		slog.String("provider", id.Provider),
	)

	s.AfterAccountCreated(ctx, account, pendingCode)
	return account, nil
}
