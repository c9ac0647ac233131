package repository

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements the ledger store using GORM
type TransactionRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

func (r *TransactionRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorMapper.MapError(err, EntityTypeTransaction)
	if !errs.IsPersistenceError(mapped) {
		return mapped
	}

	logFields := map[string]any{"operation": operation, "error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}
	r.logger.Error("Ledger store operation failed", logFields)
	return mapped
}

// Create appends a ledger entry and assigns its ID
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	row := model.TransactionFromEntity(transaction)

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{
			"user_id":      transaction.UserID,
			"point_change": transaction.PointChange,
		})
	}

	transaction.ID = row.ID
	return nil
}

// GetByID retrieves a ledger entry
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var row model.Transaction
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, r.handleDatabaseError("get", err, map[string]any{"transaction_id": id})
	}
	return row.ToEntity(), nil
}

// ListByUserID returns a user's ledger entries ordered by ID
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("list_by_user", err, map[string]any{"user_id": userID})
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, rows[i].ToEntity())
	}
	return transactions, nil
}

// Delete removes a single ledger entry
func (r *TransactionRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("delete", result.Error, map[string]any{"transaction_id": id})
	}
	if result.RowsAffected == 0 {
		return r.errorMapper.MapError(gorm.ErrRecordNotFound, EntityTypeTransaction)
	}
	return nil
}

// DeleteByUserID removes every ledger entry of a user
func (r *TransactionRepository) DeleteByUserID(ctx context.Context, userID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Transaction{})
	if result.Error != nil {
		return 0, r.handleDatabaseError("delete_by_user", result.Error, map[string]any{"user_id": userID})
	}
	return result.RowsAffected, nil
}
