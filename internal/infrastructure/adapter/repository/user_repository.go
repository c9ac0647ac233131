package repository

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

// handleDatabaseError logs unexpected failures and maps err to a domain error
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorMapper.MapError(err, EntityTypeUser)
	if !errs.IsPersistenceError(mapped) {
		return mapped
	}

	logFields := map[string]any{"operation": operation, "error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}
	r.logger.Error("User store operation failed", logFields)
	return mapped
}

// Create stores a new user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	row := model.UserFromEntity(user)

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{"email": user.Email})
	}

	user.ID = row.ID
	r.logger.Debug("User row inserted", map[string]any{"user_id": row.ID})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var row model.User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, r.handleDatabaseError("get", err, map[string]any{"user_id": id})
	}
	return row.ToEntity(), nil
}

// GetByIDForUpdate retrieves a user with SELECT ... FOR UPDATE
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	var row model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, id).Error
	if err != nil {
		return nil, r.handleDatabaseError("get_for_update", err, map[string]any{"user_id": id})
	}
	return row.ToEntity(), nil
}

// EmailExists reports whether the exact email is registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("email_exists", err, map[string]any{"email": email})
	}
	return count > 0, nil
}

// List returns all users ordered by ID
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	var rows []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("list", err, nil)
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].ToEntity())
	}
	return users, nil
}

// SetPointsBalance overwrites the stored balance
func (r *UserRepository) SetPointsBalance(ctx context.Context, id uint64, balance int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("points_balance", balance)
	if result.Error != nil {
		return r.handleDatabaseError("set_points_balance", result.Error, map[string]any{
			"user_id":        id,
			"points_balance": balance,
		})
	}
	if result.RowsAffected == 0 {
		return r.errorMapper.MapError(gorm.ErrRecordNotFound, EntityTypeUser)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("delete", result.Error, map[string]any{"user_id": id})
	}
	if result.RowsAffected == 0 {
		return r.errorMapper.MapError(gorm.ErrRecordNotFound, EntityTypeUser)
	}
	return nil
}
