package usecase

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

// DefaultUser describes a user seeded at startup
type DefaultUser struct {
	Email   string
	Name    string
	Balance int64
}

// UserUseCase defines the User Directory operations
type UserUseCase interface {
	// CreateUser registers a new user; the email must not be taken
	CreateUser(ctx context.Context, email, name string, initialBalance int64) (*entity.User, error)

	// GetUser returns a user or ErrUserNotFound
	GetUser(ctx context.Context, userID uint64) (*entity.User, error)

	// ListUsers returns every user ordered by ID
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// DeleteUser removes the user's transactions and then the user, atomically
	DeleteUser(ctx context.Context, userID uint64) error

	// CreateDefaultUsers seeds the predefined users whose email is not registered yet
	CreateDefaultUsers(ctx context.Context) error
}
