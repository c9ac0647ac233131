package entity

import (
	"math"
	"strings"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
)

// User represents a points account holder
type User struct {
	ID            uint64 // Assigned by the store on creation
	Email         string // Unique across all users, compared case-sensitively
	Name          string // Display name, not unique
	pointsBalance int64  // Never negative after a committed change (private)
}

// NewUser creates a user that has not been stored yet (ID is zero until the store assigns one)
func NewUser(email, name string, initialBalance int64) (*User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, errs.ErrInvalidEmail
	}
	if name == "" {
		return nil, errs.ErrInvalidName
	}
	if initialBalance < 0 {
		return nil, errs.ErrNegativeBalance
	}

	return &User{
		Email:         email,
		Name:          name,
		pointsBalance: initialBalance,
	}, nil
}

// RestoreUser rebuilds a stored user without re-running creation rules
func RestoreUser(id uint64, email, name string, pointsBalance int64) *User {
	return &User{
		ID:            id,
		Email:         email,
		Name:          name,
		pointsBalance: pointsBalance,
	}
}

// PointsBalance returns the current points total
func (u *User) PointsBalance() int64 {
	return u.pointsBalance
}

// CanApply reports whether the signed change keeps the balance non-negative
// and within int64
func (u *User) CanApply(pointChange int64) bool {
	return u.checkPointChange(pointChange) == nil
}

// ApplyPointChange adds the signed change to the balance, refusing to go below zero
// or past math.MaxInt64
func (u *User) ApplyPointChange(pointChange int64) error {
	if err := u.checkPointChange(pointChange); err != nil {
		return err
	}
	u.pointsBalance += pointChange
	return nil
}

func (u *User) checkPointChange(pointChange int64) error {
	if pointChange > 0 && u.pointsBalance > math.MaxInt64-pointChange {
		return errs.ErrBalanceOverflow
	}
	// The balance is never negative, so adding a negative change cannot wrap
	if pointChange < 0 && u.pointsBalance+pointChange < 0 {
		return errs.NewNegativeBalanceError(u.ID, u.pointsBalance, pointChange)
	}
	return nil
}

// SetPointsBalance overwrites the balance. Callers are responsible for the
// non-negative check; repositories use it when loading rows.
func (u *User) SetPointsBalance(balance int64) {
	u.pointsBalance = balance
}
