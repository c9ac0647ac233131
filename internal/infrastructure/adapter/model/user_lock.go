package model

import (
	"time"
)

// UserLock is a lease on a user held by one service instance while it
// applies a point change
type UserLock struct {
	UserID    uint64    `gorm:"primaryKey;not null"`
	Owner     string    `gorm:"not null;size:64"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:user_locks_expires_at_idx"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for UserLock
func (UserLock) TableName() string {
	return "user_locks"
}
