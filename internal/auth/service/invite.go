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
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

const (
	// InviteCodeLength and InviteCodeAlphabet leave out 0/O and 1/I so codes
	// survive being read aloud at the front desk.
	InviteCodeLength   = 8
	InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	DefaultInviteHours = 168
	MaxInviteHours     = 24 * 365
	MaxInviteQuantity  = 100

	inviteListLimit = 500
)

var (
	// ErrInviteInvalid covers unknown, expired, and already used codes alike.
	ErrInviteInvalid        = errors.New("invalid or expired invite code")
	ErrInvalidInviteRequest = errors.New("invalid invite request")
)

// GenerateResult reports the codes that were actually stored. Count can be
// lower than the requested quantity when a generated code already existed.
type GenerateResult struct {
	Count int
	Codes []string
}

type InviteService struct {
	Store store.Store

	// Now and NewCode default to the wall clock and a random code.
	Now     func() time.Time
	NewCode func() (string, error)
}

func (s *InviteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *InviteService) newCode() (string, error) {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return cryptox.GenerateCode(InviteCodeAlphabet, InviteCodeLength)
}

// Generate creates quantity codes expiring expiresInHours from now. Zero
// values fall back to one code and DefaultInviteHours.
func (s *InviteService) Generate(
	ctx context.Context,
	quantity int,
	expiresInHours int,
	createdBy string,
) (GenerateResult, error) {
	log := slogx.FromContext(ctx)

	if quantity == 0 {
		quantity = 1
	}
	if expiresInHours == 0 {
		expiresInHours = DefaultInviteHours
	}
	if quantity < 1 || quantity > MaxInviteQuantity {
		return GenerateResult{}, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInviteRequest, MaxInviteQuantity)
	}
	if expiresInHours < 1 || expiresInHours > MaxInviteHours {
		return GenerateResult{}, fmt.Errorf("%w: expiry must be between 1 and %d hours", ErrInvalidInviteRequest, MaxInviteHours)
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(expiresInHours) * time.Hour)

	// Codes are drawn before the transaction opens.
	candidates := make([]string, 0, quantity)
	for range quantity {
		code, err := s.newCode()
		if err != nil {
			log.Error("failed to generate invite code", slog.Any("error", err))
			return GenerateResult{}, err
		}
		candidates = append(candidates, code)
	}

	var inserted []string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inserted = inserted[:0]
		for _, code := range candidates {
			ok, err := tx.Invites().CreateInviteCode(ctx, domain.InviteCode{
				Code:      code,
				ExpiresAt: expiresAt,
				CreatedBy: createdBy,
				CreatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("insert invite code: %w", err)
			}
			if ok {
				inserted = append(inserted, code)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to store invite codes", slog.Any("error", err))
		return GenerateResult{}, err
	}

	if skipped := quantity - len(inserted); skipped > 0 {
		log.Warn("skipped duplicate invite codes", slog.Int("skipped", skipped))
	}
	log.Info("invite codes generated",
		slog.Int("requested", quantity),
		slog.Int("created", len(inserted)),
		slog.Time("expires_at", expiresAt),
		slog.String("created_by", createdBy),
	)

	return GenerateResult{Count: len(inserted), Codes: inserted}, nil
}

// Validate returns the stored code when it can still be consumed.
func (s *InviteService) Validate(ctx context.Context, code string) (domain.InviteCode, error) {
	code = cryptox.NormalizeCode(code)
	if code == "" {
		return domain.InviteCode{}, ErrInviteInvalid
	}

	invite, err := s.Store.Invites().GetInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Debug("invite code not found", slogx.Secret("code", code))
			return domain.InviteCode{}, ErrInviteInvalid
		}
		return domain.InviteCode{}, fmt.Errorf("get invite code: %w", err)
	}

	if status := invite.Status(s.now()); status != domain.InviteActive {
		slogx.FromContext(ctx).Debug("invite code rejected",
			slogx.Secret("code", code),
			slog.String("status", string(status)),
		)
		return domain.InviteCode{}, ErrInviteInvalid
	}
	return invite, nil
}

// Consume marks code used by email. Only one of any number of concurrent
// callers succeeds; the rest get ErrInviteInvalid.
func (s *InviteService) Consume(ctx context.Context, code, email string) error {
	code = cryptox.NormalizeCode(code)
	if code == "" {
		return ErrInviteInvalid
	}

	email = domain.NormalizeEmail(email)

	ok, err := s.Store.Invites().ConsumeInviteCode(ctx, code, email, s.now())
	if err != nil {
		return fmt.Errorf("consume invite code: %w", err)
	}
	if !ok {
		return ErrInviteInvalid
	}

	slogx.FromContext(ctx).Info("invite code consumed",
		slogx.Secret("code", code),
		slog.String("email", email),
	)
	return nil
}

// Release returns a code consumed by email to the unused state, provided no
// account has been linked to it. It reports whether the code was released.
func (s *InviteService) Release(ctx context.Context, code, email string) (bool, error) {
	code = cryptox.NormalizeCode(code)
	if code == "" {
		return false, nil
	}
	email = domain.NormalizeEmail(email)

	ok, err := s.Store.Invites().ReleaseInviteCode(ctx, code, email)
	if err != nil {
		return false, fmt.Errorf("release invite code: %w", err)
	}
	if ok {
		slogx.FromContext(ctx).Info("invite code released",
			slogx.Secret("code", code),
			slog.String("email", email),
		)
	}
	return ok, nil
}

// List returns the most recent codes for the owner's audit view.
func (s *InviteService) List(ctx context.Context) ([]domain.InviteCode, error) {
	return s.Store.Invites().ListInviteCodes(ctx, inviteListLimit)
}
