package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for dashboard users.
type Repository interface {
	// CreateUser inserts a user; ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, u *User) error

	// EnsureUser inserts u unless its email exists and returns the stored row.
	EnsureUser(ctx context.Context, u *User) (*User, error)

	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
