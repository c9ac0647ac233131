package persistence

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

// TransactionRepository is the append-only Ledger Store
type TransactionRepository interface {
	// Create stores a new ledger entry and assigns its ID
	//
	// Possible errors:
	// - ErrUserNotFound: If referenced user does not exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a ledger entry
	//
	// Possible errors:
	// - ErrTransactionNotFound: If transaction with the given ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// ListByUserID returns the user's ledger entries ordered by ID
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUserID(ctx context.Context, userID uint64) ([]*entity.Transaction, error)

	// Delete removes a single ledger entry
	//
	// Possible errors:
	// - ErrTransactionNotFound: If transaction with the given ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Delete(ctx context.Context, id uint64) error

	// DeleteByUserID removes every ledger entry of a user and returns how many were removed
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	DeleteByUserID(ctx context.Context, userID uint64) (int64, error)
}
