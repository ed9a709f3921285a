package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := NewErrNotFound("customer", "abc")
	assert.Equal(t, "customer not found: abc", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("phone is required")
	assert.Contains(t, err.Error(), "phone is required")
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestErrUnauthenticated(t *testing.T) {
	err := &ErrUnauthenticated{Reason: "Invalid user code"}
	assert.Contains(t, err.Error(), "Invalid user code")
	assert.True(t, IsUnauthenticated(err))

	bare := &ErrUnauthenticated{}
	assert.Equal(t, "unauthenticated", bare.Error())
}

func TestErrExternalService_Unwrap(t *testing.T) {
	inner := errors.New("timeout")
	err := &ErrExternalService{Service: "twilio", Op: "send", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "twilio")
}
