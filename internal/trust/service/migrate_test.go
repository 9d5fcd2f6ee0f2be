package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/stretchr/testify/require"
)

func TestIdentityMigratorMovesGuestCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guest := domain.AnonymousOwner("anon-123")

	f.addToCart(t, guest, "apple", 1)
	f.addToCart(t, guest, "pear", 3)

	res, err := f.migrator.Migrate(ctx, "anon-123", "42")
	require.NoError(t, err)
	require.Equal(t, 2, res.MovedCount())
	require.Equal(t, domain.AnonymousID("anon-123"), res.AnonymousID)
	require.Equal(t, domain.Subject("42"), res.Subject)

	require.Equal(t, map[string]int{"apple": 1, "pear": 3}, f.cart(t, domain.SubjectOwner("42")))
	require.Empty(t, f.cart(t, guest))

	again, err := f.migrator.Migrate(ctx, "anon-123", "42")
	require.NoError(t, err)
	require.Zero(t, again.MovedCount())
	require.Equal(t, map[string]int{"apple": 1, "pear": 3}, f.cart(t, domain.SubjectOwner("42")))
}

func TestIdentityMigratorMergesIntoExistingLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addToCart(t, domain.SubjectOwner("42"), "apple", 2)
	f.addToCart(t, domain.AnonymousOwner("anon"), "apple", 3)
	f.addToCart(t, domain.AnonymousOwner("anon"), "plum", 1)

	res, err := f.migrator.Migrate(ctx, "anon", "42")
	require.NoError(t, err)
	require.Equal(t, 1, res.Moved)
	require.Equal(t, 1, res.Merged)

	items, err := f.carts.List(ctx, domain.SubjectOwner("42"))
	require.NoError(t, err)
	require.Len(t, items, 2, "no duplicate lines after a merge")
	require.Equal(t, map[string]int{"apple": 5, "plum": 1}, f.cart(t, domain.SubjectOwner("42")))
}

func TestIdentityMigratorClampsMergedQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subject := domain.SubjectOwner("42")

	f.addToCart(t, subject, "apple", 60)
	f.addToCart(t, domain.AnonymousOwner("anon"), "apple", 60)

	_, err := f.migrator.Migrate(ctx, "anon", "42")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"apple": MaxItemQuantity}, f.cart(t, subject))

	_, err = f.carts.Add(ctx, subject, "apple", 1)
	require.ErrorIs(t, err, ErrInvalidRequest)

	require.NoError(t, f.carts.Remove(ctx, subject, "apple"))
	_, err = f.carts.Add(ctx, subject, "apple", 1)
	require.NoError(t, err)
}

func TestIdentityMigratorEdgeCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.migrator.Migrate(ctx, "", "42")
	require.NoError(t, err)
	require.Zero(t, res.MovedCount())

	_, err = f.migrator.Migrate(ctx, "anon", "")
	require.Error(t, err)

	res, err = f.migrator.Migrate(ctx, "nobody-home", "42")
	require.NoError(t, err)
	require.Zero(t, res.MovedCount())
}

func TestIdentityMigratorSurfacesStoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk on fire")
	m := NewIdentityMigrator(failingTxStore{Store: f.store, err: boom})

	_, err := m.Migrate(context.Background(), "anon", "42")
	require.ErrorIs(t, err, boom)
}
