package model

import (
	"time"
)

// Transaction represents one ledger entry
type Transaction struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"not null;index:transactions_user_id_idx"`
	Description string    `gorm:"not null;type:text"`
	PointChange int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
