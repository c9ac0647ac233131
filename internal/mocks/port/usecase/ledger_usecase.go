package usecase

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	ucport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
	"github.com/stretchr/testify/mock"
)

type LedgerUseCase struct {
	mock.Mock
}

func (m *LedgerUseCase) ApplyPointChange(ctx context.Context, req ucport.PointChangeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *LedgerUseCase) Earn(ctx context.Context, userID uint64, description string, points int64) error {
	args := m.Called(ctx, userID, description, points)
	return args.Error(0)
}

func (m *LedgerUseCase) Redeem(ctx context.Context, userID uint64, description string, points int64) error {
	args := m.Called(ctx, userID, description, points)
	return args.Error(0)
}

func (m *LedgerUseCase) GetTransaction(ctx context.Context, transactionID uint64) (*entity.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *LedgerUseCase) ListTransactions(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *LedgerUseCase) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
