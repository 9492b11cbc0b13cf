package store

import (
	"context"
	"errors"
	"time"

	"github.com/avalonfair/gatehouse/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by guarded updates whose WHERE clause matched
	// no rows, meaning another writer got there first or the record is no
	// longer in the required state.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to actively stop callers from accidentally opening
// transactions within transactions.
type Store interface {
	Invites() Invites
	OTPCodes() OTPCodes
	Settings() Settings
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., superseding
	// an active code while inserting its replacement).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite writes a new invite. Returns ErrAlreadyExists when the
	// code collides with an existing one.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByID returns an invite by id regardless of status.
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByCode returns an invite by its opaque code regardless of
	// status. Callers decide what an inactive invite means.
	GetInviteByCode(ctx context.Context, code string) (domain.Invite, error)

	// ListInvites returns all invites ordered by creation date (newest first).
	ListInvites(ctx context.Context) ([]domain.Invite, error)

	// ConsumeInvite atomically spends one use of an active, unexpired,
	// non-exhausted invite, flipping status to expired when this use was the
	// last. Returns ErrConflict when the invite was not consumable.
	ConsumeInvite(ctx context.Context, code string, now time.Time) error

	// UpdateInvite rewrites the mutable fields (email, domain, max_uses,
	// expires_at, status, notes) and bumps updated_at.
	UpdateInvite(ctx context.Context, inv domain.Invite) error

	// DeleteInvite removes an invite permanently.
	DeleteInvite(ctx context.Context, id string) error

	// ExpireInvites flips status to expired for active invites whose
	// expiry has passed. Returns the number of invites expired.
	ExpireInvites(ctx context.Context, now time.Time) (int64, error)
}

type OTPCodes interface {
	// CreateOTP inserts a new active record. At most one active record per
	// email may exist; the caller supersedes the previous one first, inside
	// a transaction.
	CreateOTP(ctx context.Context, rec domain.OTPRecord) error

	// GetActiveOTPByEmail returns the single active record for an email.
	GetActiveOTPByEmail(ctx context.Context, email string) (domain.OTPRecord, error)

	// DeactivateOTPs clears the active flag on every record for an email.
	DeactivateOTPs(ctx context.Context, email string) error

	// IncrementOTPAttempts bumps the attempt counter and returns the new
	// count. The increment lands even when verification ultimately fails.
	IncrementOTPAttempts(ctx context.Context, id string) (int, error)

	// MarkOTPConsumed flips consumed exactly once. Returns ErrConflict when
	// the record was already consumed.
	MarkOTPConsumed(ctx context.Context, id string, now time.Time) error

	// CountIssuedSince counts records issued to an email at or after the
	// cutoff, consumed or not.
	CountIssuedSince(ctx context.Context, email string, cutoff time.Time) (int, error)

	// OldestIssuedSince returns the earliest sent_at for an email at or
	// after the cutoff. ErrNotFound when none exist.
	OldestIssuedSince(ctx context.Context, email string, cutoff time.Time) (time.Time, error)

	// CountIssuedByOriginSince counts records issued from an origin hash at
	// or after the cutoff, across all emails.
	CountIssuedByOriginSince(ctx context.Context, originHash string, cutoff time.Time) (int, error)

	// OldestIssuedByOriginSince returns the earliest sent_at for an origin
	// hash at or after the cutoff. ErrNotFound when none exist.
	OldestIssuedByOriginSince(ctx context.Context, originHash string, cutoff time.Time) (time.Time, error)

	// DeleteExpiredOTPs removes records past their expiry (housekeeping).
	// Returns the number of records deleted.
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}

type Settings interface {
	// GetSettings returns the singleton gating configuration.
	GetSettings(ctx context.Context) (domain.Settings, error)

	// UpdateSettings rewrites the singleton and bumps updated_at.
	UpdateSettings(ctx context.Context, s domain.Settings) error
}

type Users interface {
	// CreateUser inserts a verified-signup stub (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByEmail returns a user by email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}
