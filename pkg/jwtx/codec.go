package jwtx

import (
	"errors"
	"fmt"
	"time"
)

// Codec encodes and decodes the signed tokens carried in session cookies.
// Encode and Decode are pure apart from the clock; a Codec is safe for
// concurrent use once built.
type Codec struct {
	signer   Signer
	verifier *Verifier
	issuer   string
	leeway   time.Duration
	now      func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec builds a codec that signs with signer and verifies against keys.
// The signer's own key is added to keys if missing.
func NewCodec(signer Signer, keys *KeySet, issuer string, opts ...CodecOption) (*Codec, error) {
	if signer == nil {
		return nil, errors.New("jwtx: codec requires a signer")
	}
	if keys == nil {
		keys = NewKeySet()
	}
	if _, _, err := keys.Get(signer.KID()); errors.Is(err, ErrNoKey) {
		if err := keys.AddSigner(signer); err != nil {
			return nil, err
		}
	}

	c := &Codec{
		signer:   signer,
		verifier: NewVerifier(keys),
		issuer:   issuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issuer returns the iss claim written into every token.
func (c *Codec) Issuer() string { return c.issuer }

// Encode signs a token for subject that expires ttl from now.
func (c *Codec) Encode(subject string, kind Kind, ttl time.Duration) (string, Claims, error) {
	switch {
	case subject == "":
		return "", Claims{}, fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	case !kind.Valid():
		return "", Claims{}, fmt.Errorf("%w: kind %q", ErrInvalidClaim, kind)
	case ttl <= 0:
		return "", Claims{}, fmt.Errorf("%w: ttl must be positive", ErrInvalidClaim)
	}

	claims := NewClaims(subject, kind, ttl, c.issuer, c.now().UTC())
	token, err := c.signer.Sign(claims)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return token, claims, nil
}

// Decode verifies token and returns its claims. Every failure wraps exactly
// one of ErrInvalidSig, ErrExpired or ErrMalformed. The signature is checked
// first, so a tampered expired token reports ErrInvalidSig.
func (c *Codec) Decode(token string) (Claims, error) {
	claims, err := c.verifier.Verify(token)
	if err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateShape(); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSig, err)
	}
	if err := claims.ValidateExpiry(c.now().UTC(), c.leeway); err != nil {
		if errors.Is(err, ErrExpired) {
			return Claims{}, err
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return claims, nil
}
