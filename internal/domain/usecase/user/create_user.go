package user

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
)

// CreateUser registers a new user with the given email, name and initial balance
func (u *UserUseCase) CreateUser(ctx context.Context, email, name string, initialBalance int64) (*entity.User, error) {
	user, err := entity.NewUser(email, name, initialBalance)
	if err != nil {
		return nil, err
	}

	repo := u.uow.GetUserRepository(ctx)

	// Fast path; the unique constraint in the store settles races
	exists, err := repo.EmailExists(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		u.logger.Warn("Duplicate email on user creation", map[string]any{"email": user.Email})
		return nil, errs.ErrDuplicateEmail
	}

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, errs.ErrDuplicateEmail) {
			u.logger.Warn("Duplicate email on user creation", map[string]any{"email": user.Email})
			return nil, err
		}
		u.logger.Error("Failed to create user", map[string]any{
			"email": user.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User created", map[string]any{
		"user_id":         user.ID,
		"email":           user.Email,
		"initial_balance": initialBalance,
	})

	return user, nil
}

// CreateDefaultUsers creates the predefined users whose email is not registered yet
func (u *UserUseCase) CreateDefaultUsers(ctx context.Context) error {
	repo := u.uow.GetUserRepository(ctx)

	for _, defaultUser := range u.defaultUsers {
		exists, err := repo.EmailExists(ctx, defaultUser.Email)
		if err != nil {
			return err
		}

		if exists {
			u.logger.Debug("Default user already exists", map[string]any{
				"email": defaultUser.Email,
			})
			continue
		}

		_, err = u.CreateUser(ctx, defaultUser.Email, defaultUser.Name, defaultUser.Balance)
		if err != nil && !errors.Is(err, errs.ErrDuplicateEmail) {
			return err
		}
	}

	u.logger.Info("Default users created or verified", map[string]any{
		"count": len(u.defaultUsers),
	})
	return nil
}
