package app

import (
	"fmt"
	"log/slog"

	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
)

// InitKeys builds the KeyManager for the configured algorithm.
//
//   - HS256 signs with TRUST_SIGNING_SECRET. Every replica sharing the
//     secret accepts the others' tokens.
//   - EdDSA loads TRUST_SIGNING_KEY_FILE, creating it on first start. With
//     no file the key lives in memory and tokens die with the process.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	switch cfg.Algorithm {
	case jwtx.AlgorithmHS256:
		km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
			Algorithm: jwtx.AlgorithmHS256,
			Secret:    []byte(cfg.SigningSecret),
		})
		if err != nil {
			return nil, fmt.Errorf("load hs256 key: %w", err)
		}
		logger.Info("signing key loaded", "algorithm", km.Algorithm(), "kid", km.Signer.KID())
		return km, nil

	case jwtx.AlgorithmEdDSA:
		if cfg.SigningKeyFile == "" {
			km, err := jwtx.NewEphemeralKeyManager(jwtx.AlgorithmEdDSA)
			if err != nil {
				return nil, fmt.Errorf("generate ephemeral eddsa key: %w", err)
			}
			logger.Warn("using an ephemeral signing key; tokens will not survive a restart",
				"algorithm", km.Algorithm(), "kid", km.Signer.KID())
			return km, nil
		}

		pemKey, created, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
		if err != nil {
			return nil, err
		}
		km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
			Algorithm:     jwtx.AlgorithmEdDSA,
			PrivateKeyPEM: pemKey,
		})
		if err != nil {
			return nil, fmt.Errorf("load eddsa key: %w", err)
		}
		logger.Info("signing key loaded",
			"algorithm", km.Algorithm(),
			"kid", km.Signer.KID(),
			"path", cfg.SigningKeyFile,
			"created", created,
		)
		return km, nil

	default:
		return nil, fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
	}
}
