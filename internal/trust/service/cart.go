package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
)

const (
	MaxItemQuantity  = 99
	MaxProductIDSize = 64
)

// CartService is the reference guest-owned resource: a cart keyed by either
// an anonymous id or a subject.
type CartService struct {
	Store store.Store
}

func (s *CartService) List(ctx context.Context, owner domain.Owner) ([]domain.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrInvalidRequest
	}
	return s.Store.CartItems().ListCartItems(ctx, owner)
}

// Add puts quantity more of productID in the cart. A line never holds more
// than MaxItemQuantity.
func (s *CartService) Add(ctx context.Context, owner domain.Owner, productID string, quantity int) (domain.CartItem, error) {
	productID = strings.TrimSpace(productID)
	switch {
	case owner.IsZero():
		return domain.CartItem{}, ErrInvalidRequest
	case productID == "" || len(productID) > MaxProductIDSize:
		return domain.CartItem{}, fmt.Errorf("%w: product_id must be 1 to %d bytes", ErrInvalidRequest, MaxProductIDSize)
	case quantity < 1 || quantity > MaxItemQuantity:
		return domain.CartItem{}, fmt.Errorf("%w: quantity must be 1 to %d", ErrInvalidRequest, MaxItemQuantity)
	}

	var out domain.CartItem
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		items, err := tx.CartItems().ListCartItems(ctx, owner)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ProductID == productID && it.Quantity+quantity > MaxItemQuantity {
				return fmt.Errorf("%w: quantity must not exceed %d", ErrInvalidRequest, MaxItemQuantity)
			}
		}

		out, err = tx.CartItems().AddCartItem(ctx, domain.CartItem{
			Owner:     owner,
			ProductID: productID,
			Quantity:  quantity,
		})
		return err
	})
	return out, err
}

// Remove deletes a line. store.ErrNotFound is returned when there was none.
func (s *CartService) Remove(ctx context.Context, owner domain.Owner, productID string) error {
	if owner.IsZero() {
		return ErrInvalidRequest
	}
	return s.Store.CartItems().RemoveCartItem(ctx, owner, strings.TrimSpace(productID))
}
