package jwtx_test

import (
	"testing"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestKindValid(t *testing.T) {
	require.True(t, jwtx.KindAccess.Valid())
	require.True(t, jwtx.KindRefresh.Valid())
	require.False(t, jwtx.Kind("").Valid())
	require.False(t, jwtx.Kind("ACCESS").Valid())
}

func TestValidateExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := jwtx.NewClaims("42", jwtx.KindAccess, time.Minute, testIssuer, now)

	t.Run("before expiry", func(t *testing.T) {
		require.NoError(t, c.ValidateExpiry(now.Add(30*time.Second), 0))
	})

	t.Run("after expiry", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateExpiry(now.Add(61*time.Second), 0), jwtx.ErrExpired)
	})

	t.Run("before nbf", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateExpiry(now.Add(-time.Minute), 0), jwtx.ErrNotYetValid)
	})

	t.Run("leeway covers skew", func(t *testing.T) {
		require.NoError(t, c.ValidateExpiry(now.Add(-5*time.Second), 10*time.Second))
	})
}

func TestValidateIssuer(t *testing.T) {
	c := jwtx.NewClaims("42", jwtx.KindAccess, time.Minute, "trust-core", time.Now())
	require.NoError(t, c.ValidateIssuer("trust-core"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)
}
