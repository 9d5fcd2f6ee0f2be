package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/memory"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/sqlite"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
	testCSRFTTL    = time.Hour
	testPassword   = "correct-horse-battery"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock    *fakeClock
	store    *sqlite.Store
	records  *memory.CSRFStore
	codec    *jwtx.Codec
	tokens   *TokenService
	csrf     *CSRFGuard
	migrator *IdentityMigrator
	users    *UserService
	carts    *CartService
	resolver *SessionResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	km, err := jwtx.NewEphemeralKeyManager(jwtx.AlgorithmHS256)
	require.NoError(t, err)
	codec, err := km.NewCodec("trust-test", jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	tokens, err := NewTokenService(codec, testAccessTTL, testRefreshTTL)
	require.NoError(t, err)

	records := memory.NewCSRFStore()
	guard := NewCSRFGuard(records, testCSRFTTL)
	guard.Now = clock.Now

	migrator := NewIdentityMigrator(s)
	migrator.Now = clock.Now

	users := &UserService{Store: s}

	return &fixture{
		clock:    clock,
		store:    s,
		records:  records,
		codec:    codec,
		tokens:   tokens,
		csrf:     guard,
		migrator: migrator,
		users:    users,
		carts:    &CartService{Store: s},
		resolver: &SessionResolver{
			Tokens:      tokens,
			CSRF:        guard,
			Migrator:    migrator,
			Credentials: users,
			Registrar:   users,
		},
	}
}

func (f *fixture) register(t *testing.T, username string) domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), username, testPassword)
	require.NoError(t, err)
	return u
}

func (f *fixture) addToCart(t *testing.T, owner domain.Owner, product string, qty int) {
	t.Helper()
	_, err := f.carts.Add(context.Background(), owner, product, qty)
	require.NoError(t, err)
}

func (f *fixture) cart(t *testing.T, owner domain.Owner) map[string]int {
	t.Helper()
	items, err := f.carts.List(context.Background(), owner)
	require.NoError(t, err)
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

// failingTxStore makes every transaction fail with err.
type failingTxStore struct {
	store.Store
	err error
}

func (s failingTxStore) WithTx(context.Context, func(store.Tx) error) error {
	return s.err
}
