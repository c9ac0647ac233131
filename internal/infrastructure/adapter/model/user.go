package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	Email         string    `gorm:"not null;size:255;uniqueIndex:users_email_key"`
	Name          string    `gorm:"not null;size:255"`
	PointsBalance int64     `gorm:"not null;check:users_points_balance_check,points_balance >= 0"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
