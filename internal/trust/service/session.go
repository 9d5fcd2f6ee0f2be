package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

// SessionResolver answers "who is calling" for each request and runs the
// login, register, refresh and logout flows around the other components.
type SessionResolver struct {
	Tokens      *TokenService
	CSRF        *CSRFGuard
	Migrator    *IdentityMigrator
	Credentials CredentialVerifier
	Registrar   AccountRegistrar
}

// LoginResult is what a successful login or registration produces.
type LoginResult struct {
	Subject   domain.Subject
	Tokens    domain.TokenPair
	Migration domain.MigrationResult
}

// Resolve never fails. A valid access token wins; otherwise a guest id makes
// the caller Anonymous. Invalid and malformed tokens count as absent. An
// expired token is not refreshed here; it is flagged so the client can call
// the refresh endpoint.
func (r *SessionResolver) Resolve(ctx context.Context, accessToken string, anon domain.AnonymousID) domain.Identity {
	id := domain.Identity{State: domain.Unauthenticated, AnonymousID: anon}

	if accessToken != "" {
		claims, err := r.Tokens.Authenticate(accessToken)
		switch {
		case err == nil:
			id.State = domain.Authenticated
			id.Subject = domain.Subject(claims.Subject)
			id.ExpiresAt = claims.ExpiresAtTime()
			return id
		case errors.Is(err, jwtx.ErrExpired):
			id.TokenExpired = true
		default:
			slogx.FromContext(ctx).Debug("ignoring unusable access token", slog.String("reason", err.Error()))
		}
	}

	if anon != "" {
		id.State = domain.Anonymous
	}
	return id
}

// Login verifies credentials and completes the sign-in.
func (r *SessionResolver) Login(ctx context.Context, username, password string, anon domain.AnonymousID) (LoginResult, error) {
	subject, err := r.Credentials.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slogx.FromContext(ctx).Warn("login failed", slog.String("username", username))
		}
		return LoginResult{}, err
	}
	return r.completeSignIn(ctx, subject, anon)
}

// Register creates the account and signs it in.
func (r *SessionResolver) Register(ctx context.Context, username, password string, anon domain.AnonymousID) (LoginResult, error) {
	if r.Registrar == nil {
		return LoginResult{}, errors.New("registration is not enabled")
	}
	u, err := r.Registrar.Register(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}
	return r.completeSignIn(ctx, u.ID, anon)
}

// completeSignIn issues the pair, moves the guest cart and drops any CSRF
// token left from an earlier session. Tokens are only returned once the
// migration committed.
func (r *SessionResolver) completeSignIn(ctx context.Context, subject domain.Subject, anon domain.AnonymousID) (LoginResult, error) {
	pair, err := r.Tokens.Issue(ctx, subject)
	if err != nil {
		return LoginResult{}, err
	}

	mig, err := r.Migrator.Migrate(ctx, anon, subject)
	if err != nil {
		slogx.FromContext(ctx).Error("sign-in aborted by failed migration",
			slog.String("subject", string(subject)),
			slog.Any("error", err),
		)
		return LoginResult{}, err
	}

	if err := r.CSRF.Clear(ctx, subject); err != nil {
		slogx.FromContext(ctx).Warn("failed to clear csrf token on sign-in", slog.Any("error", err))
	}

	return LoginResult{Subject: subject, Tokens: pair, Migration: mig}, nil
}

// Refresh rotates a refresh token into a new pair.
func (r *SessionResolver) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return r.Tokens.Refresh(ctx, refreshToken)
}

// Logout drops the subject's CSRF token. The tokens themselves are
// stateless; the transport clears the cookies.
func (r *SessionResolver) Logout(ctx context.Context, subject domain.Subject) error {
	return r.CSRF.Clear(ctx, subject)
}
