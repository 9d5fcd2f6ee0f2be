package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitKeysHS256SharedSecret(t *testing.T) {
	cfg := validConfig()

	a, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	b, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)

	// Two replicas with the same secret accept each other's tokens.
	require.Equal(t, a.Signer.KID(), b.Signer.KID())

	ca, err := a.NewCodec(cfg.Issuer)
	require.NoError(t, err)
	cb, err := b.NewCodec(cfg.Issuer)
	require.NoError(t, err)

	token, _, err := ca.Encode("user-1", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)
	claims, err := cb.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
}

func TestInitKeysEdDSAKeyFileSurvivesRestart(t *testing.T) {
	cfg := validConfig()
	cfg.Algorithm = jwtx.AlgorithmEdDSA
	cfg.SigningKeyFile = filepath.Join(t.TempDir(), "keys", "signing.pem")

	first, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.FileExists(t, cfg.SigningKeyFile)

	second, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.Equal(t, first.Signer.KID(), second.Signer.KID())

	c1, err := first.NewCodec(cfg.Issuer)
	require.NoError(t, err)
	c2, err := second.NewCodec(cfg.Issuer)
	require.NoError(t, err)

	token, _, err := c1.Encode("user-1", jwtx.KindRefresh, time.Hour)
	require.NoError(t, err)
	_, err = c2.Decode(token)
	require.NoError(t, err)
}

func TestInitKeysEphemeralEdDSA(t *testing.T) {
	cfg := validConfig()
	cfg.Algorithm = jwtx.AlgorithmEdDSA

	a, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	b, err := InitKeys(cfg, slogx.Discard())
	require.NoError(t, err)

	ca, err := a.NewCodec(cfg.Issuer)
	require.NoError(t, err)
	cb, err := b.NewCodec(cfg.Issuer)
	require.NoError(t, err)

	token, _, err := ca.Encode("user-1", jwtx.KindAccess, time.Minute)
	require.NoError(t, err)
	_, err = cb.Decode(token)
	require.Error(t, err)
}
