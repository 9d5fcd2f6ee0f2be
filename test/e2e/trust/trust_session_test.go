//go:build e2e

package trust_test

import (
	"testing"

	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

// TestGuestCartMigratesOnLogin walks a guest through shopping, registering,
// logging out and logging back in.
func TestGuestCartMigratesOnLogin(t *testing.T) {
	baseURL := setupTrustContainer(t, nil)
	ctx := t.Context()

	c := trustsdk.NewClient(baseURL, trustsdk.WithCSRFRetry())

	_, err := c.AddCartItem(ctx, "sku-1", 2)
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "anonymous", me.State)

	session, err := c.Register(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.Equal(t, 1, session.MigratedItems)

	cart, err := c.Cart(ctx)
	require.NoError(t, err)
	require.Equal(t, "subject", cart.Owner)
	require.Len(t, cart.Items, 1)

	require.NoError(t, c.Logout(ctx))

	// A second guest session on the same browser merges into the account.
	_, err = c.AddCartItem(ctx, "sku-1", 1)
	require.NoError(t, err)
	_, err = c.AddCartItem(ctx, "sku-2", 1)
	require.NoError(t, err)

	session, err = c.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.Equal(t, 2, session.MigratedItems)

	cart, err = c.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	for _, item := range cart.Items {
		if item.ProductID == "sku-1" {
			require.Equal(t, 3, item.Quantity)
		}
	}
}

func TestSignedInMutationRequiresCSRF(t *testing.T) {
	baseURL := setupTrustContainer(t, nil)
	ctx := t.Context()

	c := trustsdk.NewClient(baseURL)
	_, err := c.Register(ctx, "bob", testPassword)
	require.NoError(t, err)

	_, err = c.AddCartItem(ctx, "sku-1", 1)
	require.ErrorIs(t, err, trustsdk.ErrForbidden)

	_, err = c.CSRFToken(ctx)
	require.NoError(t, err)
	_, err = c.AddCartItem(ctx, "sku-1", 1)
	require.NoError(t, err)
}

// TestCSRFSharedThroughRedis checks the redis backend end to end.
func TestCSRFSharedThroughRedis(t *testing.T) {
	baseURL := setupRedisTrustContainer(t)
	ctx := t.Context()

	c := trustsdk.NewClient(baseURL, trustsdk.WithCSRFRetry())
	_, err := c.Register(ctx, "carol", testPassword)
	require.NoError(t, err)

	_, err = c.AddCartItem(ctx, "sku-1", 1)
	require.NoError(t, err)
	require.NoError(t, c.RemoveCartItem(ctx, "sku-1"))
	require.NoError(t, c.Logout(ctx))
}

func TestRefreshAfterLogout(t *testing.T) {
	baseURL := setupTrustContainer(t, nil)
	ctx := t.Context()

	c := trustsdk.NewClient(baseURL, trustsdk.WithCSRFRetry())
	login, err := c.Register(ctx, "dave", testPassword)
	require.NoError(t, err)

	refreshed, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, login.Subject, refreshed.Subject)

	require.NoError(t, c.Logout(ctx))

	_, err = c.Refresh(ctx)
	require.ErrorIs(t, err, trustsdk.ErrInvalidRefreshToken)
}
