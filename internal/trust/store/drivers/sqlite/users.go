package sqlite

import (
	"context"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
)

type usersRepo struct{ q *queries }

func (r *usersRepo) GetUserByID(ctx context.Context, id domain.Subject) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, string(id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := utc(u.CreatedAt)
	updated := u.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	err := r.q.CreateUser(ctx, userRow{
		ID:           string(u.ID),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    created,
		UpdatedAt:    updated.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
