package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInviteCode(ctx context.Context, c domain.InviteCode) (bool, error) {
	n, err := r.q.InsertInviteCode(ctx, gen.InsertInviteCodeParams{
		Code:      c.Code,
		ExpiresAt: toMillis(c.ExpiresAt),
		CreatedBy: mapStringNull(c.CreatedBy),
		CreatedAt: toMillis(c.CreatedAt),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) GetInviteCode(ctx context.Context, code string) (domain.InviteCode, error) {
	row, err := r.q.GetInviteCode(ctx, code)
	if err != nil {
		return domain.InviteCode{}, mapNotFound(err)
	}
	return mapInviteCode(row), nil
}

func (r *invitesRepo) ConsumeInviteCode(ctx context.Context, code, email string, now time.Time) (bool, error) {
	n, err := r.q.ConsumeInviteCode(ctx, gen.ConsumeInviteCodeParams{
		UsedAt:        sql.NullInt64{Int64: toMillis(now), Valid: true},
		RedeemedEmail: mapStringNull(email),
		Code:          code,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) ReleaseInviteCode(ctx context.Context, code, email string) (bool, error) {
	n, err := r.q.ReleaseInviteCode(ctx, gen.ReleaseInviteCodeParams{
		Code:          code,
		RedeemedEmail: mapStringNull(email),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) LinkInviteCode(ctx context.Context, code, userID string) (bool, error) {
	n, err := r.q.LinkInviteCode(ctx, gen.LinkInviteCodeParams{
		UserID: mapStringNull(userID),
		Code:   code,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitesRepo) ListInviteCodes(ctx context.Context, limit int) ([]domain.InviteCode, error) {
	rows, err := r.q.ListInviteCodes(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	codes := make([]domain.InviteCode, len(rows))
	for i, row := range rows {
		codes[i] = mapInviteCode(row)
	}
	return codes, nil
}

func (r *invitesRepo) LinkRedeemedInviteCodes(ctx context.Context) (int64, error) {
	return r.q.LinkRedeemedInviteCodes(ctx)
}
