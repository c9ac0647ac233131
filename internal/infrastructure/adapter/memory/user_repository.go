package memory

import (
	"context"
	"sort"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
)

// UserRepository is the in-memory user directory
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository over store
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) toEntity(id uint64, rec userRecord) *entity.User {
	return entity.RestoreUser(id, rec.email, rec.name, rec.pointsBalance)
}

// Create stores a new user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.PointsBalance() < 0 {
		return errs.ErrNegativeBalance
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return errs.ErrDuplicateEmail
	}

	s.nextUserID++
	id := s.nextUserID
	s.users[id] = userRecord{email: user.Email, name: user.Name, pointsBalance: user.PointsBalance()}
	s.emails[user.Email] = id

	if tx := txFromContext(ctx); tx != nil {
		email := user.Email
		tx.record(func() {
			delete(s.users, id)
			delete(s.emails, email)
		})
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return r.toEntity(id, rec), nil
}

// GetByIDForUpdate retrieves a user; units of work already run one at a time
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

// EmailExists reports whether the exact email is registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.emails[email]
	return ok, nil
}

// List returns all users ordered by ID
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.store.users))
	for id, rec := range r.store.users {
		users = append(users, r.toEntity(id, rec))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// SetPointsBalance overwrites the stored balance
func (r *UserRepository) SetPointsBalance(ctx context.Context, id uint64, balance int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if balance < 0 {
		return errs.ErrNegativeBalance
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}

	previous := rec
	rec.pointsBalance = balance
	s.users[id] = rec

	if tx := txFromContext(ctx); tx != nil {
		tx.record(func() { s.users[id] = previous })
	}
	return nil
}

// Delete removes a user together with any remaining ledger entries
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}

	removed := make([]entity.Transaction, 0)
	for txID, t := range s.transactions {
		if t.UserID == id {
			removed = append(removed, t)
			delete(s.transactions, txID)
		}
	}
	delete(s.users, id)
	delete(s.emails, rec.email)

	if tx := txFromContext(ctx); tx != nil {
		tx.record(func() {
			s.users[id] = rec
			s.emails[rec.email] = id
			for _, t := range removed {
				s.transactions[t.ID] = t
			}
		})
	}
	return nil
}
