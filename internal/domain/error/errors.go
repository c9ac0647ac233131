package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest   = 4000
	CodeNegativeBalance  = 4001
	CodeInvalidPoints    = 4002
	CodeInvalidUserID    = 4003
	CodeEmptyDescription = 4004
	CodeBalanceOverflow  = 4005
	CodeDuplicateEmail   = 4009
	CodeUserNotFound     = 4040
	CodeTxNotFound       = 4041
	CodeUserLocked       = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error kinds
var (
	// ErrNotFound is the parent of every "unknown id" error
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidArgument is the parent of every user-facing validation failure
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPersistence is returned when the underlying store could not complete an operation
	ErrPersistence = errors.New("persistence failure")
)

// Concrete errors
var (
	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = fmt.Errorf("user not found: %w", ErrNotFound)

	// ErrTransactionNotFound is returned when the requested ledger entry doesn't exist
	ErrTransactionNotFound = fmt.Errorf("transaction not found: %w", ErrNotFound)

	// ErrInvalidPoints is returned when the point magnitude is not strictly positive
	ErrInvalidPoints = fmt.Errorf("points must be greater than 0: %w", ErrInvalidArgument)

	// ErrEmptyDescription is returned when a ledger entry has no description
	ErrEmptyDescription = fmt.Errorf("description cannot be empty: %w", ErrInvalidArgument)

	// ErrNegativeBalance is returned when an operation would leave a user below zero points
	ErrNegativeBalance = fmt.Errorf("points transactions cannot leave a user with a negative points total: %w", ErrInvalidArgument)

	// ErrBalanceOverflow is returned when an earn would push the balance past the largest storable total
	ErrBalanceOverflow = fmt.Errorf("points transactions cannot exceed the maximum points total: %w", ErrInvalidArgument)

	// ErrInvalidUserID is returned when the user ID is zero
	ErrInvalidUserID = fmt.Errorf("user ID must be positive: %w", ErrInvalidArgument)

	// ErrInvalidEmail is returned when a user is created without an email
	ErrInvalidEmail = fmt.Errorf("email cannot be empty: %w", ErrInvalidArgument)

	// ErrInvalidName is returned when a user is created without a name
	ErrInvalidName = fmt.Errorf("name cannot be empty: %w", ErrInvalidArgument)

	// ErrInvalidDirection is returned for a direction other than earn or redeem
	ErrInvalidDirection = fmt.Errorf("direction must be earn or redeem: %w", ErrInvalidArgument)

	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = fmt.Errorf("user with this email address already exists: %w", ErrInvalidArgument)

	// ErrInvalidRequest is returned when request fields are missing or malformed
	ErrInvalidRequest = fmt.Errorf("invalid request: %w", ErrInvalidArgument)

	// ErrUserLocked is returned when a user is locked by another operation
	ErrUserLocked = errors.New("user is locked by another operation")

	// ErrDatabaseConnection is returned when the database cannot be reached
	ErrDatabaseConnection = fmt.Errorf("database connection error: %w", ErrPersistence)

	// ErrQueueClosed is returned when the ledger stops accepting work during shutdown
	ErrQueueClosed = errors.New("ledger queue is shut down")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrNegativeBalance):
		return CodeNegativeBalance
	case errors.Is(err, ErrInvalidPoints):
		return CodeInvalidPoints
	case errors.Is(err, ErrBalanceOverflow):
		return CodeBalanceOverflow
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrEmptyDescription):
		return CodeEmptyDescription
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTxNotFound
	case errors.Is(err, ErrUserLocked):
		return CodeUserLocked
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidRequest
	default:
		return CodeInternalServer
	}
}

// ValidationError carries every message produced while validating a request
type ValidationError struct {
	Messages []string
}

// NewValidationError creates a validation error from the accumulated messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Is reports ValidationError as an invalid request
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest || target == ErrInvalidArgument
}

// NegativeBalanceError provides detailed information about a rejected point change
type NegativeBalanceError struct {
	UserID         uint64
	CurrentBalance int64
	PointChange    int64
}

// Error implements the error interface
func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("point change %d would leave user %d with a negative balance (current balance: %d)",
		e.PointChange, e.UserID, e.CurrentBalance)
}

// Is checks if the target error is an ErrNegativeBalance
func (e *NegativeBalanceError) Is(target error) bool {
	return target == ErrNegativeBalance || target == ErrInvalidArgument
}

// LogFields returns a map of fields for structured logging
func (e *NegativeBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "negative_balance",
		"user_id":         e.UserID,
		"current_balance": e.CurrentBalance,
		"point_change":    e.PointChange,
		"error_code":      CodeNegativeBalance,
	}
}

// NewNegativeBalanceError creates a detailed negative balance error
func NewNegativeBalanceError(userID uint64, currentBalance, pointChange int64) error {
	return &NegativeBalanceError{
		UserID:         userID,
		CurrentBalance: currentBalance,
		PointChange:    pointChange,
	}
}

// LedgerError represents a failure while applying a point change
type LedgerError struct {
	UserID      uint64
	Direction   string
	PointChange int64
	Stage       string
	Err         error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s failed for user %d (change: %d) at %s: %v",
		e.Direction, e.UserID, e.PointChange, e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "ledger_error",
		"user_id":      e.UserID,
		"direction":    e.Direction,
		"point_change": e.PointChange,
		"stage":        e.Stage,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewLedgerError creates a detailed ledger error
func NewLedgerError(userID uint64, direction string, pointChange int64, stage string, err error) error {
	return &LedgerError{
		UserID:      userID,
		Direction:   direction,
		PointChange: pointChange,
		Stage:       stage,
		Err:         err,
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgumentError checks if the error is a user-facing validation failure
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsPersistenceError checks if the error originates from the store
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsUserLockedError checks if the error is related to a locked user
func IsUserLockedError(err error) bool {
	return errors.Is(err, ErrUserLocked)
}

// ValidationMessages returns the message list of a ValidationError, or nil
func ValidationMessages(err error) []string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Messages
	}
	return nil
}
