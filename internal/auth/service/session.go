package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

// DefaultRefreshWindow is how long after expiry a session token may still be
// exchanged for a fresh one.
const DefaultRefreshWindow = 7 * 24 * time.Hour

var ErrSessionInvalid = errors.New("invalid session")

// TokenSigner signs session claims. *jwtx.KeyManager satisfies it.
type TokenSigner interface {
	Sign(claims jwtx.Claims) (string, error)
}

// SessionService turns an account into a signed session token. The role is
// read from storage only here; in between, requests trust the token.
type SessionService struct {
	Store    store.Store
	Signer   TokenSigner
	Verifier jwtx.Verifier
	Issuer   string

	TTL           time.Duration
	RefreshWindow time.Duration
	Now           func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *SessionService) refreshWindow() time.Duration {
	if s.RefreshWindow > 0 {
		return s.RefreshWindow
	}
	return DefaultRefreshWindow
}

// Mint issues a session for email. An email with no account yet gets the
// default user role and an empty subject.
func (s *SessionService) Mint(ctx context.Context, email string) (string, domain.Session, error) {
	email = domain.NormalizeEmail(email)

	var sess domain.Session
	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		sess = domain.Session{UserID: account.ID, Email: account.Email, Role: account.Role}
	case errors.Is(err, store.ErrNotFound):
		sess = domain.Session{Email: email, Role: domain.RoleUser}
	default:
		return "", domain.Session{}, fmt.Errorf("get account: %w", err)
	}

	return s.sign(ctx, sess)
}

// Refresh verifies raw, tolerating expiry within the refresh window, and
// mints a new token from the account's current state. This is how a role
// change reaches a signed-in member.
func (s *SessionService) Refresh(ctx context.Context, raw string) (string, domain.Session, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Verifier.VerifyExpired(raw, s.refreshWindow())
	if err != nil {
		log.Info("refresh rejected", slog.String("reason", err.Error()))
		return "", domain.Session{}, ErrSessionInvalid
	}

	var account domain.Account
	if claims.Subject != "" {
		account, err = s.Store.Accounts().GetAccountByID(ctx, claims.Subject)
	} else {
		account, err = s.Store.Accounts().GetAccountByEmail(ctx, domain.NormalizeEmail(claims.Email))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("refresh for unknown account",
				slog.String("sub", claims.Subject),
				slog.String("email", claims.Email),
			)
			return "", domain.Session{}, ErrSessionInvalid
		}
		return "", domain.Session{}, fmt.Errorf("get account: %w", err)
	}

	if string(account.Role) != claims.Role {
		log.Info("session role updated",
			slog.String("sub", account.ID),
			slog.String("from", claims.Role),
			slog.String("to", account.Role.String()),
		)
	}

	return s.sign(ctx, domain.Session{UserID: account.ID, Email: account.Email, Role: account.Role})
}

// Materialize is the request-facing view of already verified claims.
func (s *SessionService) Materialize(claims jwtx.Claims) domain.Session {
	sess := domain.Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}

func (s *SessionService) sign(ctx context.Context, sess domain.Session) (string, domain.Session, error) {
	now := s.now()
	claims := jwtx.NewSessionClaims(sess.UserID, sess.Email, sess.Role.String(), s.ttl(), s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign session token", slog.Any("error", err))
		return "", domain.Session{}, fmt.Errorf("sign session: %w", err)
	}

	sess.ExpiresAt = claims.ExpiresAt.Time
	return token, sess, nil
}
