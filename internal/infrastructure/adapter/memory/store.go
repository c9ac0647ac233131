// Package memory keeps users and ledger entries in process memory. It backs
// the "memory" storage driver and gives the same guarantees as the
// PostgreSQL schema: unique emails, non-negative balances, ledger entries
// that reference an existing user and cascade with it.
package memory

import (
	"sync"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

type userRecord struct {
	email         string
	name          string
	pointsBalance int64
}

// Store holds the data shared by every repository of one memory backend
type Store struct {
	mu           sync.RWMutex
	users        map[uint64]userRecord
	emails       map[string]uint64
	transactions map[uint64]entity.Transaction
	nextUserID   uint64
	nextTxID     uint64

	// txSem admits one unit of work at a time
	txSem chan struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:        make(map[uint64]userRecord),
		emails:       make(map[string]uint64),
		transactions: make(map[uint64]entity.Transaction),
		txSem:        make(chan struct{}, 1),
	}
}

// Stats reports how many users and ledger entries are stored
func (s *Store) Stats() (users, transactions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.transactions)
}
