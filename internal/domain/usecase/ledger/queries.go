package ledger

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

// GetTransaction returns one ledger entry
func (s *Service) GetTransaction(ctx context.Context, transactionID uint64) (*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).GetByID(ctx, transactionID)
}

// ListTransactions returns the ledger entries of an existing user, oldest first
func (s *Service) ListTransactions(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	if _, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.uow.GetTransactionRepository(ctx).ListByUserID(ctx, userID)
}
