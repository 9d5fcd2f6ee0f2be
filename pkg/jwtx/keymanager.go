package jwtx

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
)

// Supported JWT signing algorithms
const (
	AlgorithmHS256 = "HS256"
	AlgorithmEdDSA = "EdDSA"
)

// KeyManager owns the process-wide signing key and the KeySet it is
// published into. It is built once at startup.
type KeyManager struct {
	Signer    Signer
	KeySet    *KeySet
	algorithm string
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Algorithm is "HS256" or "EdDSA".
	Algorithm string

	// KeyID overrides the kid header. When empty it is derived from the key
	// so that replicas sharing a key agree on it.
	KeyID string

	// Secret is the HS256 shared secret.
	Secret []byte

	// PrivateKeyPEM is the PKCS8 Ed25519 key for EdDSA.
	PrivateKeyPEM []byte
}

// NewKeyManager loads the configured key.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	var (
		signer Signer
		err    error
	)

	switch opts.Algorithm {
	case AlgorithmHS256:
		signer, err = NewSignerHS256(opts.KeyID, opts.Secret)
	case AlgorithmEdDSA:
		signer, err = NewSignerEdDSA(opts.KeyID, opts.PrivateKeyPEM)
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: HS256, EdDSA)", opts.Algorithm)
	}
	if err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	return &KeyManager{Signer: signer, KeySet: keyset, algorithm: opts.Algorithm}, nil
}

// NewEphemeralKeyManager creates a KeyManager with a key that only exists in
// memory. All tokens become invalid when the process restarts.
func NewEphemeralKeyManager(algorithm string) (*KeyManager, error) {
	opts := KeyManagerOptions{Algorithm: algorithm}

	switch algorithm {
	case AlgorithmHS256:
		secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, err
		}
		opts.Secret = []byte(secret)
	case AlgorithmEdDSA:
		pemKey, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, err
		}
		opts.PrivateKeyPEM = pemKey
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: HS256, EdDSA)", algorithm)
	}

	return NewKeyManager(opts)
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string {
	return km.algorithm
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.Signer != nil && km.KeySet.IsReady()
}

// NewCodec returns a Codec bound to this manager's keys.
func (km *KeyManager) NewCodec(issuer string, opts ...CodecOption) (*Codec, error) {
	return NewCodec(km.Signer, km.KeySet, issuer, opts...)
}

func deriveKeyID(material []byte) string {
	sum := sha256.Sum256(material)
	return base64.RawURLEncoding.EncodeToString(sum[:9])
}
