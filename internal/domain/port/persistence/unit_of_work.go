package persistence

import (
	"context"
)

// UnitOfWork groups repository calls into one atomic transaction.
// Repositories obtained with a context returned by Begin take part in that
// transaction; with any other context they run on their own.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository
}

// WithinTransaction runs fn inside a unit of work, committing on success and
// rolling back on error or panic.
func WithinTransaction(ctx context.Context, uow UnitOfWork, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
		if err != nil {
			_ = uow.Rollback(txCtx)
		}
	}()

	if err = fn(txCtx); err != nil {
		return err
	}

	return uow.Commit(txCtx)
}
