package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound         = errors.New("not found")
	ErrDateRangeInvalid = errors.New("invalid date range")
	ErrItemUnavailable  = errors.New("item is not available for booking")
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")

	// ErrPrecondition marks a broken caller contract, not bad user input.
	ErrPrecondition = errors.New("precondition violated")
)

type Entity string

const (
	EntityUser    Entity = "User"
	EntityItem    Entity = "Item"
	EntityBooking Entity = "Booking"
)

// NotFoundError is returned both for absent records and for records the caller may not see.
type NotFoundError struct {
	Entity Entity
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity Entity, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// FieldError ties a rule violation to the input field that caused it.
type FieldError struct {
	Err     error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Err }

func InvalidDateRange(field, message string) error {
	return &FieldError{Err: ErrDateRangeInvalid, Field: field, Message: message}
}

func InvalidState(field, message string) error {
	return &FieldError{Err: ErrInvalidState, Field: field, Message: message}
}

func Invalid(field, message string) error {
	return &FieldError{Err: ErrValidation, Field: field, Message: message}
}

type ActionNotAllowedError struct {
	Reason string
}

func (e *ActionNotAllowedError) Error() string { return e.Reason }

func (e *ActionNotAllowedError) Unwrap() error { return ErrActionNotAllowed }

func NotAllowed(reason string) error {
	return &ActionNotAllowedError{Reason: reason}
}

// Preconditionf reports a caller contract breach.
func Preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequestError checks if the error is caused by request content.
func IsBadRequestError(err error) bool {
	return errors.Is(err, ErrDateRangeInvalid) ||
		errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation)
}

func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrActionNotAllowed)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
