package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorMapperMapError(t *testing.T) {
	mapper := NewErrorMapper()

	tests := []struct {
		name       string
		err        error
		entityType EntityType
		want       error
	}{
		{"User not found", gorm.ErrRecordNotFound, EntityTypeUser, errs.ErrUserNotFound},
		{"Transaction not found", gorm.ErrRecordNotFound, EntityTypeTransaction, errs.ErrTransactionNotFound},
		{"Other not found", gorm.ErrRecordNotFound, EntityTypeUserLock, errs.ErrNotFound},
		{"Duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, EntityTypeUser, errs.ErrDuplicateEmail},
		{"Other unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "user_locks_pkey"}, EntityTypeUserLock, errs.ErrPersistence},
		{"Foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), EntityTypeTransaction, errs.ErrUserNotFound},
		{"Check constraint", &pgconn.PgError{Code: "23514"}, EntityTypeUser, errs.ErrNegativeBalance},
		{"Lock not available", &pgconn.PgError{Code: "55P03"}, EntityTypeUser, errs.ErrUserLocked},
		{"Deadlock", &pgconn.PgError{Code: "40P01"}, EntityTypeUser, errs.ErrUserLocked},
		{"Context canceled", context.Canceled, EntityTypeUser, context.Canceled},
		{"Unknown", errors.New("boom"), EntityTypeUser, errs.ErrDatabaseConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapper.MapError(tt.err, tt.entityType), tt.want)
		})
	}

	assert.NoError(t, mapper.MapError(nil, EntityTypeUser))
}
