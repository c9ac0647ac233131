package usecase

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

type UserUseCase struct {
	mock.Mock
}

func (m *UserUseCase) CreateUser(ctx context.Context, email, name string, initialBalance int64) (*entity.User, error) {
	args := m.Called(ctx, email, name, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserUseCase) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *UserUseCase) DeleteUser(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserUseCase) CreateDefaultUsers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
