package persistence

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// UnitOfWork hands out the given repository mocks and records Begin/Commit/Rollback calls
type UnitOfWork struct {
	mock.Mock
	Users        *UserRepository
	Transactions *TransactionRepository
}

func NewUnitOfWork(users *UserRepository, transactions *TransactionRepository) *UnitOfWork {
	return &UnitOfWork{Users: users, Transactions: transactions}
}

func (m *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return ctx, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *UnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return m.Users
}

func (m *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return m.Transactions
}
