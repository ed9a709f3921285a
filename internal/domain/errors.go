package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity cannot be located, either in
// Postgres or in the external Drive/Sheets store.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewErrNotFound creates a not-found error for the given entity and key
func NewErrNotFound(entity, id string) *ErrNotFound {
	return &ErrNotFound{Entity: entity, ID: id}
}

// IsNotFound reports whether err is (or wraps) an ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ErrUnauthenticated is returned when no session is present or the
// external Google grant is missing/no longer refreshable. The HTTP layer
// maps it to a 401, never a 500.
type ErrUnauthenticated struct {
	Reason string
}

func (e *ErrUnauthenticated) Error() string {
	if e.Reason == "" {
		return "unauthenticated"
	}
	return fmt.Sprintf("unauthenticated: %s", e.Reason)
}

// IsUnauthenticated reports whether err is (or wraps) an ErrUnauthenticated
func IsUnauthenticated(err error) bool {
	var ua *ErrUnauthenticated
	return errors.As(err, &ua)
}

// ErrExternalService wraps a failure from Drive, Sheets, Twilio or SMTP.
type ErrExternalService struct {
	Service string
	Op      string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrUserExists is returned when a unique user constraint is violated
type ErrUserExists struct {
	Field string
	Value string
}

func (e *ErrUserExists) Error() string {
	return fmt.Sprintf("user already exists with %s: %s", e.Field, e.Value)
}
