package repository

import (
	"context"
	"errors"

	"imageshare/internal/domain/entity"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by Create when the normalized email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines user persistence. Emails passed in are expected
// to be normalized already.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
