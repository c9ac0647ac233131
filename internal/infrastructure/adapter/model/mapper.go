package model

import "github.com/amirhossein-jamali/points-ledger/internal/domain/entity"

// UserFromEntity builds the row for a new or updated user
func UserFromEntity(user *entity.User) *User {
	return &User{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		PointsBalance: user.PointsBalance(),
	}
}

// ToEntity converts the row back into a domain user
func (u *User) ToEntity() *entity.User {
	return entity.RestoreUser(u.ID, u.Email, u.Name, u.PointsBalance)
}

// TransactionFromEntity builds the row for a new ledger entry
func TransactionFromEntity(transaction *entity.Transaction) *Transaction {
	return &Transaction{
		ID:          transaction.ID,
		UserID:      transaction.UserID,
		Description: transaction.Description,
		PointChange: transaction.PointChange,
	}
}

// ToEntity converts the row back into a domain ledger entry
func (t *Transaction) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Description: t.Description,
		PointChange: t.PointChange,
	}
}
