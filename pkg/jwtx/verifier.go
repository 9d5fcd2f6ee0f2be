package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// The three failure kinds every Decode error belongs to. Callers branch on
// these with errors.Is; the more specific errors below are wrapped inside.
var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
)

var (
	ErrAlgMismatch    = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID     = errors.New("jwtx: unknown kid")
	ErrMissingKID     = errors.New("jwtx: missing kid")
	ErrIssuer         = errors.New("jwtx: issuer mismatch")
	ErrNotYetValid    = errors.New("jwtx: token not yet valid")
	ErrMissingSubject = errors.New("jwtx: missing subject")
	ErrMissingExpiry  = errors.New("jwtx: missing expiry")
	ErrUnknownKind    = errors.New("jwtx: unknown token kind")
	ErrInvalidClaim   = errors.New("jwtx: invalid claims")
)

// Verifier checks token signatures against a KeySet. It does not look at
// time-based claims; Codec does that against its own clock.
type Verifier struct {
	keys *KeySet
}

// NewVerifier creates a verifier backed by keys.
func NewVerifier(keys *KeySet) *Verifier {
	return &Verifier{keys: keys}
}

// Verify parses tokenStr and checks its signature. Errors wrap either
// ErrMalformed or ErrInvalidSig.
func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.keys.Algorithms()),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	if _, err := parser.ParseWithClaims(tokenStr, &claims, v.keyFunc); err != nil {
		return Claims{}, classify(err)
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKID
	}

	alg, key, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}

	// The header's alg must match the one the key was registered with,
	// otherwise an HMAC token could be checked against a public key.
	if t.Method.Alg() != alg {
		return nil, ErrAlgMismatch
	}
	return key, nil
}

// classify folds parser errors into the codec's failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
