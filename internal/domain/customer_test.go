package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerFolderName(t *testing.T) {
	assert.Equal(t, "9999900000 - Asha Rao", CustomerFolderName("9999900000", "Asha Rao"))

	c := &Customer{Phone: "8888811111", Name: "Ravi Kumar"}
	assert.Equal(t, "8888811111 - Ravi Kumar", c.FolderName())
}

func TestCreateCustomerRequest_Validate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := &CreateCustomerRequest{Name: "Asha Rao", Phone: "9999900000"}
		assert.NoError(t, req.Validate())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		req := &CreateCustomerRequest{Name: "  Asha Rao ", Phone: " 9999900000 "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Asha Rao", req.Name)
		assert.Equal(t, "9999900000", req.Phone)
	})

	t.Run("requires name", func(t *testing.T) {
		req := &CreateCustomerRequest{Phone: "9999900000"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("requires phone", func(t *testing.T) {
		req := &CreateCustomerRequest{Name: "Asha Rao"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := &CreateCustomerRequest{Name: "Asha Rao", Phone: "9999900000", Email: "not-an-email"}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("email is optional", func(t *testing.T) {
		req := &CreateCustomerRequest{Name: "Asha Rao", Phone: "9999900000"}
		assert.NoError(t, req.Validate())
	})
}

func TestUpdateCustomerRequest_Validate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("empty update is allowed", func(t *testing.T) {
		assert.NoError(t, (&UpdateCustomerRequest{}).Validate())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		req := &UpdateCustomerRequest{Name: strPtr("   ")}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := &UpdateCustomerRequest{Email: strPtr("bad@")}
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("clearing email is allowed", func(t *testing.T) {
		req := &UpdateCustomerRequest{Email: strPtr("")}
		assert.NoError(t, req.Validate())
	})
}
