package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACSecretSize is the smallest shared secret accepted for HS256.
const MinHMACSecretSize = 32

// Signer produces compact JWTs under one key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)

	// VerificationKey is what a verifier needs for this signer's tokens:
	// the shared secret for HS256, the public key for EdDSA.
	VerificationKey() any
	Validate() error
}

// keySigner serves both algorithms; only the method and key types differ.
type keySigner struct {
	kid       string
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

func (s *keySigner) Alg() string          { return s.method.Alg() }
func (s *keySigner) KID() string          { return s.kid }
func (s *keySigner) VerificationKey() any { return s.verifyKey }

func (s *keySigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.signKey)
}

func (s *keySigner) Validate() error {
	switch k := s.signKey.(type) {
	case []byte:
		if len(k) < MinHMACSecretSize {
			return fmt.Errorf("jwtx: HS256 secret must be at least %d bytes, got %d", MinHMACSecretSize, len(k))
		}
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return errors.New("jwtx: invalid Ed25519 private key size")
		}
	default:
		return fmt.Errorf("jwtx: unsupported signing key %T", s.signKey)
	}
	if s.kid == "" {
		return errors.New("jwtx: signer has no kid")
	}
	return nil
}

// NewSignerHS256 signs with a shared secret. An empty kid is derived from
// the secret so replicas sharing it agree.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	secret = append([]byte(nil), secret...)
	if kid == "" {
		kid = deriveKeyID(secret)
	}
	s := &keySigner{kid: kid, method: jwt.SigningMethodHS256, signKey: secret, verifyKey: secret}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSignerEdDSA signs with a PKCS8 PEM Ed25519 key. An empty kid is derived
// from the public key.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, errors.New("jwtx: Ed25519 key must be a PKCS8 PRIVATE KEY PEM block")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwtx: PEM holds %T, not an Ed25519 key", parsed)
	}

	pub := priv.Public().(ed25519.PublicKey)
	if kid == "" {
		kid = deriveKeyID(pub)
	}
	s := &keySigner{kid: kid, method: jwt.SigningMethodEdDSA, signKey: priv, verifyKey: pub}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
