package store

import (
	"context"
	"errors"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for durable state. It exposes
// sub-repositories so that transactional code receives the same repos bound
// to the transaction and cannot start a nested one by accident.
type Store interface {
	Users() Users
	CartItems() CartItems

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

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

type Users interface {
	GetUserByID(ctx context.Context, id domain.Subject) (domain.User, error)

	// GetUserByUsername is used by the credential check.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. A taken username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type CartItems interface {
	ListCartItems(ctx context.Context, owner domain.Owner) ([]domain.CartItem, error)

	// AddCartItem inserts the line or adds to the quantity of an existing one
	// and returns the resulting row.
	AddCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error)

	// RemoveCartItem deletes a line; ErrNotFound when there was none.
	RemoveCartItem(ctx context.Context, owner domain.Owner, productID string) error

	// Reattribute hands every row owned by anon to subject. Lines the
	// subject already holds absorb the guest quantity up to maxQuantity
	// (merged); the rest change owner (moved). Calling it again moves
	// nothing. It must run in a transaction to be atomic.
	Reattribute(ctx context.Context, anon domain.AnonymousID, subject domain.Subject, maxQuantity int, now time.Time) (moved, merged int, err error)

	// DeleteAnonymousItemsBefore drops guest rows untouched since before.
	DeleteAnonymousItemsBefore(ctx context.Context, before time.Time) (int, error)
}

// CSRFRecords holds at most one live CSRF record per subject. It is kept
// apart from Store because it is ephemeral and may live in memory or Redis.
type CSRFRecords interface {
	// SaveCSRFRecord atomically replaces the subject's record.
	SaveCSRFRecord(ctx context.Context, rec domain.CSRFRecord) error

	GetCSRFRecord(ctx context.Context, subject domain.Subject) (domain.CSRFRecord, error)

	DeleteCSRFRecord(ctx context.Context, subject domain.Subject) error

	// DeleteCSRFRecordIfUnchanged deletes the subject's record only if it is
	// still rec, so that a concurrent re-issue is never lost.
	DeleteCSRFRecordIfUnchanged(ctx context.Context, rec domain.CSRFRecord) (bool, error)

	// DeleteExpiredCSRFRecords removes records expired at now.
	DeleteExpiredCSRFRecords(ctx context.Context, now time.Time) (int, error)
}
