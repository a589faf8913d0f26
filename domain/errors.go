package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"

	ErrCodeCapacityExceeded    ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeSnoozeLimitExceeded ErrorCode = "SNOOZE_LIMIT_EXCEEDED"
	ErrCodeDayFull             ErrorCode = "DAY_FULL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTaskNotFound        = NewError(ErrCodeNotFound, "task not found")
	ErrProfileNotFound     = NewError(ErrCodeNotFound, "profile not found")
	ErrStatusNotFound      = NewError(ErrCodeNotFound, "status not found")
	ErrAchievementNotFound = NewError(ErrCodeNotFound, "achievement not found")
	ErrUnauthorized        = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "invalid payload")
	ErrProfileExists       = NewError(ErrCodeConflict, "profile already exists")
	ErrStatusExists        = NewError(ErrCodeConflict, "status already exists")
	ErrConcurrentUpdate    = NewError(ErrCodeConflict, "concurrent update, try again")

	ErrCapacityExceeded    = NewError(ErrCodeCapacityExceeded, "day already has 3 scheduled tasks")
	ErrSnoozeLimitExceeded = NewError(ErrCodeSnoozeLimitExceeded, "snooze already used")
	ErrDayFull             = NewError(ErrCodeDayFull, "day already has 3 scheduled tasks, snooze not allowed")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
