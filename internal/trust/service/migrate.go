package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

// IdentityMigrator hands a guest's cart to the account that just proved
// itself. It is safe to run twice for the same pair.
type IdentityMigrator struct {
	Store store.Store
	Now   func() time.Time
}

func NewIdentityMigrator(s store.Store) *IdentityMigrator {
	return &IdentityMigrator{Store: s, Now: time.Now}
}

// Migrate re-attributes everything anon owns to subject in one transaction.
// Merged lines stay within MaxItemQuantity. An empty anon is a no-op.
func (m *IdentityMigrator) Migrate(ctx context.Context, anon domain.AnonymousID, subject domain.Subject) (domain.MigrationResult, error) {
	res := domain.MigrationResult{AnonymousID: anon, Subject: subject}
	if subject == "" {
		return res, errors.New("migrate: subject is required")
	}
	if anon == "" {
		return res, nil
	}

	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}

	err := m.Store.WithTx(ctx, func(tx store.Tx) error {
		moved, merged, err := tx.CartItems().Reattribute(ctx, anon, subject, MaxItemQuantity, now)
		if err != nil {
			return err
		}
		res.Moved, res.Merged = moved, merged
		return nil
	})
	if err != nil {
		return domain.MigrationResult{AnonymousID: anon, Subject: subject}, fmt.Errorf("migrate anonymous cart: %w", err)
	}

	if res.MovedCount() > 0 {
		slogx.FromContext(ctx).Info("migrated anonymous cart",
			slog.String("subject", string(subject)),
			slog.Int("moved", res.Moved),
			slog.Int("merged", res.Merged),
		)
	}
	return res, nil
}
