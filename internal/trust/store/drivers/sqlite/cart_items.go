package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/idx"
)

type cartItemsRepo struct{ q *queries }

func (r *cartItemsRepo) ListCartItems(ctx context.Context, owner domain.Owner) ([]domain.CartItem, error) {
	rows, err := r.q.ListCartItems(ctx, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCartItem(row))
	}
	return items, nil
}

func (r *cartItemsRepo) AddCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	if item.ID == "" {
		item.ID = idx.New().String()
	}
	now := utc(item.UpdatedAt)

	row, err := r.q.UpsertCartItem(ctx, cartItemRow{
		ID:        item.ID,
		OwnerKind: string(item.Owner.Kind),
		OwnerID:   item.Owner.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return mapCartItem(row), nil
}

func (r *cartItemsRepo) RemoveCartItem(ctx context.Context, owner domain.Owner, productID string) error {
	n, err := r.q.DeleteCartItem(ctx, string(owner.Kind), owner.ID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Reattribute runs merge, then delete of the merged guest rows, then move.
// Deleting before moving keeps (owner, product) unique at every step.
func (r *cartItemsRepo) Reattribute(
	ctx context.Context,
	anon domain.AnonymousID,
	subject domain.Subject,
	maxQuantity int,
	now time.Time,
) (int, int, error) {
	if maxQuantity < 1 {
		return 0, 0, fmt.Errorf("max quantity must be positive, got %d", maxQuantity)
	}
	now = utc(now)

	merged, err := r.q.MergeAnonymousIntoSubject(ctx, string(anon), string(subject), now, maxQuantity)
	if err != nil {
		return 0, 0, fmt.Errorf("merge colliding rows: %w", err)
	}

	deleted, err := r.q.DeleteMergedAnonymous(ctx, string(anon), string(subject))
	if err != nil {
		return 0, 0, fmt.Errorf("delete merged rows: %w", err)
	}
	if deleted != merged {
		return 0, 0, fmt.Errorf("merge mismatch: merged %d rows but removed %d", merged, deleted)
	}

	moved, err := r.q.MoveAnonymousToSubject(ctx, string(anon), string(subject), now)
	if err != nil {
		return 0, 0, fmt.Errorf("move rows: %w", err)
	}

	return int(moved), int(merged), nil
}

func (r *cartItemsRepo) DeleteAnonymousItemsBefore(ctx context.Context, before time.Time) (int, error) {
	n, err := r.q.DeleteAnonymousBefore(ctx, before.UTC())
	return int(n), err
}
