package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes the repositories translate into domain errors
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// EntityType represents the type of entity for errors mapping
type EntityType string

const (
	// EntityTypeUser represents the user entity
	EntityTypeUser EntityType = "user"
	// EntityTypeTransaction represents the transaction entity
	EntityTypeTransaction EntityType = "transaction"
	// EntityTypeUserLock represents the user lock entity
	EntityTypeUserLock EntityType = "user_lock"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error raised while working on entityType
func (m *ErrorMapper) MapError(err error, entityType EntityType) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		switch entityType {
		case EntityTypeTransaction:
			return errs.ErrTransactionNotFound
		case EntityTypeUser:
			return errs.ErrUserNotFound
		default:
			return errs.ErrNotFound
		}
	}

	// Callers decide what a canceled operation means
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "email") {
				return errs.ErrDuplicateEmail
			}
		case pgForeignKeyViolation:
			return errs.ErrUserNotFound
		case pgCheckViolation:
			return errs.ErrNegativeBalance
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return errs.ErrUserLocked
		}
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}
