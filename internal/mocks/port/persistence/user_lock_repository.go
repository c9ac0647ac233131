package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type UserLockRepository struct {
	mock.Mock
}

func (m *UserLockRepository) AcquireLock(ctx context.Context, userID uint64, duration time.Duration) error {
	args := m.Called(ctx, userID, duration)
	return args.Error(0)
}

func (m *UserLockRepository) ReleaseLock(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
