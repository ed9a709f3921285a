package signer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	s := New("test-secret")

	t.Run("round trip", func(t *testing.T) {
		signed := s.Sign("session-id-1")
		require.True(t, strings.HasPrefix(signed, "session-id-1."))

		value, ok := s.Verify(signed)
		assert.True(t, ok)
		assert.Equal(t, "session-id-1", value)
	})

	t.Run("tampered value", func(t *testing.T) {
		signed := s.Sign("session-id-1")
		forged := strings.Replace(signed, "session-id-1", "session-id-2", 1)

		_, ok := s.Verify(forged)
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed := New("other-secret").Sign("session-id-1")

		_, ok := s.Verify(signed)
		assert.False(t, ok)
	})

	t.Run("unsigned value", func(t *testing.T) {
		_, ok := s.Verify("session-id-1")
		assert.False(t, ok)
	})

	t.Run("empty string", func(t *testing.T) {
		_, ok := s.Verify("")
		assert.False(t, ok)
	})
}
