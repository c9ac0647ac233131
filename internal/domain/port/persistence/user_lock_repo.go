package persistence

import (
	"context"
	"time"
)

// UserLockRepository coordinates ledger writers for the same user across
// service instances. Within one process the ledger queue already serializes
// writers, so implementations only need to exclude other processes.
type UserLockRepository interface {
	// AcquireLock attempts to acquire a lock on the user for ledger processing.
	// The lock expires after the given duration.
	//
	// Possible errors:
	// - ErrUserLocked: If user is already locked by another process
	// - ErrDatabaseConnection: If the lock backend fails
	AcquireLock(ctx context.Context, userID uint64, duration time.Duration) error

	// ReleaseLock releases a previously acquired lock. Releasing a lock that
	// already expired is not an error.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If the lock backend fails
	ReleaseLock(ctx context.Context, userID uint64) error
}
