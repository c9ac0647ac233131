package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
)

type txKey struct{}

// ErrNestedTransaction is returned by Begin when ctx already carries a transaction
var ErrNestedTransaction = errors.New("nested transactions are not supported")

// txState records how to undo the writes of one unit of work
type txState struct {
	mu   sync.Mutex
	done bool
	undo []func()
}

func (t *txState) record(undo func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.undo = append(t.undo, undo)
}

// txFromContext returns the active unit of work, if any
func txFromContext(ctx context.Context) *txState {
	tx, _ := ctx.Value(txKey{}).(*txState)
	return tx
}

// UnitOfWork serializes units of work on the store and undoes their writes on rollback
type UnitOfWork struct {
	store  *Store
	logger coreport.Logger
}

// NewUnitOfWork creates a unit of work over store
func NewUnitOfWork(store *Store, logger coreport.Logger) persistence.UnitOfWork {
	return &UnitOfWork{
		store:  store,
		logger: logger,
	}
}

// Begin waits for the running unit of work, if any, and starts a new one
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx := txFromContext(ctx); tx != nil {
		return ctx, ErrNestedTransaction
	}

	select {
	case u.store.txSem <- struct{}{}:
	case <-ctx.Done():
		return ctx, ctx.Err()
	}

	return context.WithValue(ctx, txKey{}, &txState{}), nil
}

// Commit keeps the writes and lets the next unit of work start
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.done {
		return fmt.Errorf("transaction has already been committed or rolled back")
	}
	tx.done = true
	tx.undo = nil
	<-u.store.txSem
	return nil
}

// Rollback undoes the writes in reverse order. It is a no-op once the unit of work ended.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	tx.mu.Lock()
	if tx.done {
		tx.mu.Unlock()
		return nil
	}
	tx.done = true
	undo := tx.undo
	tx.undo = nil
	tx.mu.Unlock()

	u.store.mu.Lock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	u.store.mu.Unlock()

	u.logger.Debug("Rolled back memory transaction", map[string]any{"writes_undone": len(undo)})

	<-u.store.txSem
	return nil
}

// GetUserRepository returns a user repository bound to ctx's unit of work
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return NewUserRepository(u.store)
}

// GetTransactionRepository returns a ledger repository bound to ctx's unit of work
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return NewTransactionRepository(u.store)
}
