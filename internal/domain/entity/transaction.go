package entity

import (
	"strings"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
)

// Direction is the sign of a point change
type Direction string

// Directions
const (
	DirectionEarn   Direction = "earn"
	DirectionRedeem Direction = "redeem"
)

// ParseDirection validates a direction string
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionEarn:
		return DirectionEarn, nil
	case DirectionRedeem:
		return DirectionRedeem, nil
	default:
		return "", errs.ErrInvalidDirection
	}
}

// Delta converts a positive magnitude into the signed point change
func (d Direction) Delta(magnitude int64) (int64, error) {
	if magnitude <= 0 {
		return 0, errs.ErrInvalidPoints
	}
	switch d {
	case DirectionEarn:
		return magnitude, nil
	case DirectionRedeem:
		return -magnitude, nil
	default:
		return 0, errs.ErrInvalidDirection
	}
}

// String returns the direction name
func (d Direction) String() string {
	return string(d)
}

// Transaction is an immutable ledger entry recording one point change
type Transaction struct {
	ID          uint64 // Assigned by the store on creation
	UserID      uint64 // Owning user
	Description string // Why the balance changed
	PointChange int64  // Positive for earn, negative for redeem
}

// NewTransaction creates a ledger entry with basic validation
func NewTransaction(userID uint64, description string, pointChange int64) (*Transaction, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if strings.TrimSpace(description) == "" {
		return nil, errs.ErrEmptyDescription
	}
	if pointChange == 0 {
		return nil, errs.ErrInvalidPoints
	}

	return &Transaction{
		UserID:      userID,
		Description: description,
		PointChange: pointChange,
	}, nil
}

// Direction derives the direction from the sign of the change
func (t *Transaction) Direction() Direction {
	if t.PointChange < 0 {
		return DirectionRedeem
	}
	return DirectionEarn
}
