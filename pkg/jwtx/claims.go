package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind tells access tokens apart from refresh tokens. A token of one kind is
// never accepted where the other is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Valid reports whether k is a known token kind.
func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Claims are the claims carried by every token the codec produces.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is "access" or "refresh".
	Kind Kind `json:"kind"`
}

// NewClaims builds claims for subject valid from now until now+ttl.
func NewClaims(subject string, kind Kind, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind: kind,
	}
}

// NewJTI returns a random identifier for the "jti" claim so that two tokens
// minted in the same second never share an encoding.
func NewJTI() string {
	return uuid.NewString()
}

// ExpiresAtTime returns the expiry as a time.Time, or the zero time when the
// claim is missing.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.UTC()
}

// ValidateShape checks the claims every decoded token must carry.
func (c *Claims) ValidateShape() error {
	switch {
	case c.Subject == "":
		return ErrMissingSubject
	case !c.Kind.Valid():
		return ErrUnknownKind
	case c.ExpiresAt == nil:
		return ErrMissingExpiry
	}
	return nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry rejects tokens used after exp, allowing leeway for clock
// skew between replicas. A token is still valid at exactly exp.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
