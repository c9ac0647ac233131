package user

import (
	"context"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
)

// DeleteUser removes the user's ledger entries first and then the user, in one unit of work
func (u *UserUseCase) DeleteUser(ctx context.Context, userID uint64) error {
	var removed int64

	err := persistence.WithinTransaction(ctx, u.uow, func(txCtx context.Context) error {
		users := u.uow.GetUserRepository(txCtx)
		if _, err := users.GetByIDForUpdate(txCtx, userID); err != nil {
			return err
		}

		var err error
		removed, err = u.uow.GetTransactionRepository(txCtx).DeleteByUserID(txCtx, userID)
		if err != nil {
			return err
		}

		return users.Delete(txCtx, userID)
	})
	if err != nil {
		u.logger.Warn("Failed to delete user", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}

	u.logger.Info("User deleted", map[string]any{
		"user_id":              userID,
		"transactions_removed": removed,
	})
	return nil
}
