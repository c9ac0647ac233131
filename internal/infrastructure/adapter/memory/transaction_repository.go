package memory

import (
	"context"
	"sort"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
)

// TransactionRepository is the in-memory ledger store
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a ledger repository over store
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create appends a ledger entry and assigns its ID
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[transaction.UserID]; !ok {
		return errs.ErrUserNotFound
	}

	s.nextTxID++
	stored := *transaction
	stored.ID = s.nextTxID
	s.transactions[stored.ID] = stored

	if tx := txFromContext(ctx); tx != nil {
		id := stored.ID
		tx.record(func() { delete(s.transactions, id) })
	}

	transaction.ID = stored.ID
	return nil
}

// GetByID retrieves a ledger entry
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	return &t, nil
}

// ListByUserID returns a user's ledger entries ordered by ID
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*entity.Transaction, 0)
	for _, t := range r.store.transactions {
		if t.UserID == userID {
			t := t
			result = append(result, &t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a single ledger entry
func (r *TransactionRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return errs.ErrTransactionNotFound
	}
	delete(s.transactions, id)

	if tx := txFromContext(ctx); tx != nil {
		tx.record(func() { s.transactions[id] = t })
	}
	return nil
}

// DeleteByUserID removes every ledger entry of a user
func (r *TransactionRepository) DeleteByUserID(ctx context.Context, userID uint64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]entity.Transaction, 0)
	for id, t := range s.transactions {
		if t.UserID == userID {
			removed = append(removed, t)
			delete(s.transactions, id)
		}
	}

	if tx := txFromContext(ctx); tx != nil && len(removed) > 0 {
		tx.record(func() {
			for _, t := range removed {
				s.transactions[t.ID] = t
			}
		})
	}
	return int64(len(removed)), nil
}
