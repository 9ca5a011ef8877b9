package domain

import "time"

// InviteCode admits one new account. Codes are never deleted; Used flips
// exactly once.
type InviteCode struct {
	Code      string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time

	// RedeemedEmail is the identity that consumed the code. UserID is filled
	// in once the account row exists, which can lag behind consumption.
	RedeemedEmail string
	UserID        string

	CreatedBy string
	CreatedAt time.Time
}

// InviteStatus is internal diagnostics only. Callers outside the service
// layer see a single "invalid or expired" outcome.
type InviteStatus string

const (
	InviteActive  InviteStatus = "active"
	InviteExpired InviteStatus = "expired"
	InviteUsed    InviteStatus = "used"
)

// IsValid reports whether the code can still be consumed at now.
func (c InviteCode) IsValid(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

func (c InviteCode) Status(now time.Time) InviteStatus {
	switch {
	case c.Used:
		return InviteUsed
	case !now.Before(c.ExpiresAt):
		return InviteExpired
	default:
		return InviteActive
	}
}
