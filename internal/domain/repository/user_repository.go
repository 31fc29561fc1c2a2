package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// UserRepository persistence port for accounts.
// Lookups return (nil, nil) when the row does not exist.
type UserRepository interface {
	// Create persists a new account. Returns domain.ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// UpdateStatus moves the account from -> to in a single statement.
	// Returns domain.ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to entity.UserStatus, at time.Time) error
	Count(ctx context.Context) (int, error)
}
