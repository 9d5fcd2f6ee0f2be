package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside transactions.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db DBTX
}

func newQueries(db DBTX) *queries {
	return &queries{db: db}
}

type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type cartItemRow struct {
	ID        string
	OwnerKind string
	OwnerID   string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

const userColumns = `id, username, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (userRow, error) {
	var u userRow
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *queries) GetUserByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

func (q *queries) GetUserByUsername(ctx context.Context, username string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const createUser = `
INSERT INTO users (id, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, u userRow) error {
	_, err := q.db.ExecContext(ctx, createUser, u.ID, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

const cartItemColumns = `id, owner_kind, owner_id, product_id, quantity, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }) (cartItemRow, error) {
	var c cartItemRow
	err := row.Scan(&c.ID, &c.OwnerKind, &c.OwnerID, &c.ProductID, &c.Quantity, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCartItems = `
SELECT ` + cartItemColumns + `
FROM cart_items
WHERE owner_kind = ? AND owner_id = ?
ORDER BY created_at, id`

func (q *queries) ListCartItems(ctx context.Context, ownerKind, ownerID string) ([]cartItemRow, error) {
	rows, err := q.db.QueryContext(ctx, listCartItems, ownerKind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []cartItemRow
	for rows.Next() {
		c, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const upsertCartItem = `
INSERT INTO cart_items (id, owner_kind, owner_id, product_id, quantity, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (owner_kind, owner_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
RETURNING ` + cartItemColumns

func (q *queries) UpsertCartItem(ctx context.Context, c cartItemRow) (cartItemRow, error) {
	return scanCartItem(q.db.QueryRowContext(ctx, upsertCartItem,
		c.ID, c.OwnerKind, c.OwnerID, c.ProductID, c.Quantity, c.CreatedAt, c.UpdatedAt))
}

const deleteCartItem = `
DELETE FROM cart_items
WHERE owner_kind = ? AND owner_id = ? AND product_id = ?`

func (q *queries) DeleteCartItem(ctx context.Context, ownerKind, ownerID, productID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCartItem, ownerKind, ownerID, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// mergeAnonymousIntoSubject adds guest quantities onto the subject's rows
// for products both carts hold, clamped to ?4.
const mergeAnonymousIntoSubject = `
UPDATE cart_items
SET quantity = MIN(?4, quantity + (
        SELECT a.quantity FROM cart_items AS a
        WHERE a.owner_kind = 'anonymous' AND a.owner_id = ?1 AND a.product_id = cart_items.product_id
    )),
    updated_at = ?3
WHERE owner_kind = 'subject' AND owner_id = ?2
  AND product_id IN (
        SELECT product_id FROM cart_items WHERE owner_kind = 'anonymous' AND owner_id = ?1
  )`

func (q *queries) MergeAnonymousIntoSubject(ctx context.Context, anonID, subject string, now time.Time, maxQuantity int) (int64, error) {
	res, err := q.db.ExecContext(ctx, mergeAnonymousIntoSubject, anonID, subject, now, maxQuantity)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteMergedAnonymous = `
DELETE FROM cart_items
WHERE owner_kind = 'anonymous' AND owner_id = ?1
  AND product_id IN (
        SELECT product_id FROM cart_items WHERE owner_kind = 'subject' AND owner_id = ?2
  )`

func (q *queries) DeleteMergedAnonymous(ctx context.Context, anonID, subject string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteMergedAnonymous, anonID, subject)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const moveAnonymousToSubject = `
UPDATE cart_items
SET owner_kind = 'subject', owner_id = ?2, updated_at = ?3
WHERE owner_kind = 'anonymous' AND owner_id = ?1`

func (q *queries) MoveAnonymousToSubject(ctx context.Context, anonID, subject string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, moveAnonymousToSubject, anonID, subject, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAnonymousBefore = `
DELETE FROM cart_items
WHERE owner_kind = 'anonymous' AND updated_at < ?`

func (q *queries) DeleteAnonymousBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteAnonymousBefore, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
