package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_IsExpired(t *testing.T) {
	live := &Session{ExpiresAt: time.Now().UTC().Add(time.Hour)}
	assert.False(t, live.IsExpired())

	expired := &Session{ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	assert.True(t, expired.IsExpired())
}

func TestAdminLoginRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &AdminLoginRequest{Email: "admin@example.com", Password: "secret"}
		assert.NoError(t, req.Validate())
	})

	t.Run("requires email", func(t *testing.T) {
		req := &AdminLoginRequest{Password: "secret"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := &AdminLoginRequest{Email: "nope", Password: "secret"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("requires password", func(t *testing.T) {
		req := &AdminLoginRequest{Email: "admin@example.com"}
		assert.True(t, IsValidationError(req.Validate()))
	})
}

func TestTailorLoginRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &TailorLoginRequest{UserCode: "TLR-1234"}
		assert.NoError(t, req.Validate())
	})

	t.Run("requires user code", func(t *testing.T) {
		req := &TailorLoginRequest{UserCode: "   "}
		err := req.Validate()
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "User code is required")
	})
}
