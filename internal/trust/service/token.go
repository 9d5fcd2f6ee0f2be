package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidRequest     = errors.New("invalid_request")

	// ErrForbidden is the single answer to a failed CSRF check. Which check
	// failed is never exposed.
	ErrForbidden = errors.New("forbidden")
)

// TokenService issues and rotates access/refresh pairs. Both tokens are
// stateless; rotation hands out a fresh pair and the old refresh token keeps
// decoding until its own expiry.
type TokenService struct {
	Codec      *jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewTokenService enforces that an access token always dies before the
// refresh token issued with it.
func NewTokenService(codec *jwtx.Codec, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if codec == nil {
		return nil, errors.New("token service: codec is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token service: TTLs must be positive")
	}
	if accessTTL >= refreshTTL {
		return nil, fmt.Errorf("token service: access TTL %s must be shorter than refresh TTL %s", accessTTL, refreshTTL)
	}
	return &TokenService{Codec: codec, AccessTTL: accessTTL, RefreshTTL: refreshTTL}, nil
}

// Issue signs a new pair for subject.
func (s *TokenService) Issue(ctx context.Context, subject domain.Subject) (domain.TokenPair, error) {
	access, ac, err := s.Codec.Encode(string(subject), jwtx.KindAccess, s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, rc, err := s.Codec.Encode(string(subject), jwtx.KindRefresh, s.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	slogx.FromContext(ctx).Debug("issued token pair",
		slog.String("subject", string(subject)),
		slog.String("access_jti", ac.ID),
		slog.String("refresh_jti", rc.ID),
	)

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  ac.ExpiresAtTime(),
		RefreshExpiresAt: rc.ExpiresAtTime(),
	}, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. Every
// failure, including an access token presented in its place, is reported as
// ErrInvalidRefresh wrapping the cause.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Decode(refreshToken)
	if err != nil {
		l.Warn("refresh rejected", slog.String("reason", err.Error()))
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrInvalidRefresh, err)
	}
	if claims.Kind != jwtx.KindRefresh {
		l.Warn("refresh rejected", slog.String("reason", "wrong token kind"), slog.String("kind", string(claims.Kind)))
		return domain.TokenPair{}, fmt.Errorf("%w: token kind is %q", ErrInvalidRefresh, claims.Kind)
	}

	return s.Issue(ctx, domain.Subject(claims.Subject))
}

// Authenticate decodes an access token. A refresh token is refused with
// jwtx.ErrMalformed so it can never stand in for an access token.
func (s *TokenService) Authenticate(accessToken string) (jwtx.Claims, error) {
	claims, err := s.Codec.Decode(accessToken)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if claims.Kind != jwtx.KindAccess {
		return jwtx.Claims{}, fmt.Errorf("%w: token kind is %q", jwtx.ErrMalformed, claims.Kind)
	}
	return claims, nil
}
