package usecase

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

// PointChangeRequest is one earn or redeem request
type PointChangeRequest struct {
	UserID      uint64
	Description string
	Points      int64 // Magnitude, must be > 0
	Direction   entity.Direction
}

// LedgerUseCase defines the Points-Ledger Service operations
type LedgerUseCase interface {
	// ApplyPointChange records a ledger entry and updates the balance as one unit.
	// Nothing is mutated when it returns an error.
	ApplyPointChange(ctx context.Context, req PointChangeRequest) error

	// Earn adds points to a user's balance
	Earn(ctx context.Context, userID uint64, description string, points int64) error

	// Redeem removes points from a user's balance
	Redeem(ctx context.Context, userID uint64, description string, points int64) error

	// GetTransaction returns one ledger entry or ErrTransactionNotFound
	GetTransaction(ctx context.Context, transactionID uint64) (*entity.Transaction, error)

	// ListTransactions returns the ledger entries of an existing user
	ListTransactions(ctx context.Context, userID uint64) ([]*entity.Transaction, error)

	// Shutdown stops accepting work and waits for queued changes to finish
	Shutdown(ctx context.Context) error
}
