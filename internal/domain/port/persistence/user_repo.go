package persistence

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
)

// UserRepository is the User Directory store
type UserRepository interface {
	// Create stores a new user and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicateEmail: If another user already has the same email
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks its row until the surrounding
	// unit of work ends. Outside a unit of work it behaves like GetByID.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrUserLocked: If the row lock could not be obtained
	// - ErrDatabaseConnection: If database connection fails
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error)

	// EmailExists reports whether a user with exactly this email is registered
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	EmailExists(ctx context.Context, email string) (bool, error)

	// List returns all users ordered by ID
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	List(ctx context.Context) ([]*entity.User, error)

	// SetPointsBalance overwrites the stored balance. It does not re-check
	// non-negativity; the ledger has already done so under the row lock.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	SetPointsBalance(ctx context.Context, id uint64, balance int64) error

	// Delete removes a user. Its transactions must already be gone.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Delete(ctx context.Context, id uint64) error
}
