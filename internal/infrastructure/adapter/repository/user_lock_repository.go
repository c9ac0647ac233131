package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLockRepository implements user leases on the user_locks table. Each
// repository instance has its own owner token, so one service instance can
// never release a lease another instance took over after expiry.
type UserLockRepository struct {
	db           *gorm.DB
	owner        string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *ErrorMapper
}

// NewUserLockRepository creates a new UserLockRepository instance
func NewUserLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserLockRepository {
	return &UserLockRepository{
		db:           db,
		owner:        uuid.NewString(),
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  NewErrorMapper(),
	}
}

// Owner returns the token this instance writes into the locks it holds
func (r *UserLockRepository) Owner() string {
	return r.owner
}

// AcquireLock inserts the lease, or takes over one that has expired
func (r *UserLockRepository) AcquireLock(ctx context.Context, userID uint64, duration time.Duration) error {
	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO user_locks (user_id, owner, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET owner = EXCLUDED.owner,
		    locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE user_locks.expires_at <= ?`,
		userID, r.owner, now, expiresAt, now, now,
		now,
	)

	if result.Error != nil {
		if isContextError(result.Error) {
			return fmt.Errorf("lock acquisition canceled: %w", result.Error)
		}
		r.logger.Error("Database error acquiring lock", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, EntityTypeUserLock)
	}

	// ON CONFLICT ... WHERE skips the update while the lease is still valid
	if result.RowsAffected == 0 {
		r.logger.Debug("User is already locked", map[string]any{"user_id": userID})
		return errs.ErrUserLocked
	}

	r.logger.Debug("Lock acquired", map[string]any{
		"user_id":    userID,
		"expires_at": expiresAt,
	})
	return nil
}

// isContextError checks if an error is related to context timeout or cancellation
func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// ReleaseLock deletes the lease if this instance still owns it
func (r *UserLockRepository) ReleaseLock(ctx context.Context, userID uint64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND owner = ?", userID, r.owner).
		Delete(&model.UserLock{})

	// The lease expires on its own
	if result.Error != nil && isContextError(result.Error) {
		r.logger.Warn("Context done while releasing lock, lock will expire automatically", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil
	}

	if result.Error != nil {
		r.logger.Error("Failed to release lock", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return r.errorMapper.MapError(result.Error, EntityTypeUserLock)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("No lock found to release, it may have expired", map[string]any{"user_id": userID})
	}
	return nil
}

// CleanupExpiredLocks removes all expired locks from the database
func (r *UserLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.UserLock{})
	if result.Error != nil {
		r.logger.Error("Failed to clean up expired locks", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, r.errorMapper.MapError(result.Error, EntityTypeUserLock)
	}

	r.logger.Info("Expired locks cleanup completed", map[string]any{
		"locks_removed": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
