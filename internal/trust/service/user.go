package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
	"github.com/jcarintoc/simple-applications-sub002/pkg/idx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// CredentialVerifier proves a username/password pair and names the subject.
// It fails with ErrInvalidCredentials without saying which half was wrong.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, username, password string) (domain.Subject, error)
}

// AccountRegistrar creates accounts. A taken username fails with
// ErrUsernameTaken.
type AccountRegistrar interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
}

// UserService is the reference credential store backed by the users table.
type UserService struct {
	Store store.Store
}

var (
	_ CredentialVerifier = (*UserService)(nil)
	_ AccountRegistrar   = (*UserService)(nil)
)

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, id domain.Subject) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           domain.Subject(idx.New().String()),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("subject", string(u.ID)))
	return s.Store.Users().GetUserByID(ctx, u.ID)
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.Subject, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same work as a real check so unknown usernames do
			// not answer faster.
			_ = cryptox.VerifyPassword(password, decoyHash())
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return u.ID, nil
}

var decoyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("decoy-password-never-matches")
	if err != nil {
		return ""
	}
	return h
})

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d to %d characters", ErrInvalidRequest, MinUsernameLength, MaxUsernameLength)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return fmt.Errorf("%w: username may only contain letters, digits, '_', '-' and '.'", ErrInvalidRequest)
		}
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidRequest, MinPasswordLength, MaxPasswordLength)
	}
	return nil
}
