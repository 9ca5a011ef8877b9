package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can hand out the same repos bound to the
// tx.
type Store interface {
	Accounts() Accounts
	Invites() Invites
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail expects an already normalized address.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount returns ErrAlreadyExists when the email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccountRole returns ErrNotFound when no account has id.
	UpdateAccountRole(ctx context.Context, id string, role domain.Role, now time.Time) error

	// DeleteAccountByEmail returns ErrNotFound when nothing was deleted.
	DeleteAccountByEmail(ctx context.Context, email string) error

	// ListAccounts returns newest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	CountAccountsByRole(ctx context.Context, role domain.Role) (int64, error)
}

type Invites interface {
	// CreateInviteCode inserts c unless the code already exists, reporting
	// whether a row was written.
	CreateInviteCode(ctx context.Context, c domain.InviteCode) (bool, error)

	GetInviteCode(ctx context.Context, code string) (domain.InviteCode, error)

	// ConsumeInviteCode flips used to true only if the code is unused and
	// unexpired at now. Exactly one concurrent caller sees true.
	ConsumeInviteCode(ctx context.Context, code, email string, now time.Time) (bool, error)

	// ReleaseInviteCode undoes a consumption by email whose account was
	// never created. A code already linked to a user is left alone.
	ReleaseInviteCode(ctx context.Context, code, email string) (bool, error)

	// LinkInviteCode sets user_id on a code that has none yet.
	LinkInviteCode(ctx context.Context, code, userID string) (bool, error)

	// ListInviteCodes returns at most limit codes, newest first.
	ListInviteCodes(ctx context.Context, limit int) ([]domain.InviteCode, error)

	// LinkRedeemedInviteCodes links every consumed, unlinked code to the
	// account whose email matches the redeeming identity.
	LinkRedeemedInviteCodes(ctx context.Context) (int64, error)
}

type SigningKeys interface {
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// ListSigningKeys returns every stored key, newest first.
	ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// DeleteSigningKeysExpiredBefore purges keys that stopped signing before
	// cutoff.
	DeleteSigningKeysExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
