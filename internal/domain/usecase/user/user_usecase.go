package user

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
)

// DefaultUsers are seeded at startup when seeding is enabled
var DefaultUsers = []usecase.DefaultUser{
	{Email: "user1@example.com", Name: "User One", Balance: 1},
	{Email: "user2@example.com", Name: "User Two", Balance: 2},
	{Email: "user3@example.com", Name: "User Three", Balance: 3},
	{Email: "user4@example.com", Name: "User Four", Balance: 4},
}

// UserUseCase implements the User Directory
type UserUseCase struct {
	uow          persistence.UnitOfWork
	logger       coreport.Logger
	defaultUsers []usecase.DefaultUser
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(uow persistence.UnitOfWork, logger coreport.Logger) usecase.UserUseCase {
	return &UserUseCase{
		uow:          uow,
		logger:       logger,
		defaultUsers: DefaultUsers,
	}
}

// GetUser returns a user by ID
func (u *UserUseCase) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	return u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
}

// ListUsers returns all users ordered by ID
func (u *UserUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := u.uow.GetUserRepository(ctx).List(ctx)
	if err != nil {
		u.logger.Error("Failed to list users", map[string]any{"error": err.Error()})
		return nil, err
	}
	return users, nil
}
