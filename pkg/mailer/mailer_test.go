package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigIsConfigured(t *testing.T) {
	full := Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "mailer",
		SMTPPassword: "secret",
		FromEmail:    "noreply@example.com",
		FromName:     "StitchDesk",
		AdminEmail:   "admin@example.com",
	}
	assert.True(t, full.IsConfigured())

	t.Run("missing host", func(t *testing.T) {
		c := full
		c.SMTPHost = ""
		assert.False(t, c.IsConfigured())
	})

	t.Run("missing credentials", func(t *testing.T) {
		c := full
		c.SMTPUsername = ""
		assert.False(t, c.IsConfigured())
		c = full
		c.SMTPPassword = ""
		assert.False(t, c.IsConfigured())
	})

	t.Run("missing admin address", func(t *testing.T) {
		c := full
		c.AdminEmail = ""
		assert.False(t, c.IsConfigured())
	})
}

func TestSendNewCustomerNotification(t *testing.T) {
	t.Run("unconfigured mailer skips silently", func(t *testing.T) {
		m := NewSMTPMailer(&Config{})
		err := m.SendNewCustomerNotification("Asha Rao", "9999900000", "blouse")
		assert.NoError(t, err)
	})

	t.Run("test mode builds message without dialing", func(t *testing.T) {
		m := NewTestSMTPMailer(&Config{
			SMTPHost:     "smtp.example.com",
			SMTPPort:     587,
			SMTPUsername: "mailer",
			SMTPPassword: "secret",
			FromEmail:    "noreply@example.com",
			FromName:     "StitchDesk",
			AdminEmail:   "admin@example.com",
		})
		err := m.SendNewCustomerNotification("Asha Rao", "9999900000", "")
		assert.NoError(t, err)
	})

	t.Run("invalid from address", func(t *testing.T) {
		m := NewTestSMTPMailer(&Config{
			SMTPHost:     "smtp.example.com",
			SMTPUsername: "mailer",
			SMTPPassword: "secret",
			FromEmail:    "not-an-address",
			AdminEmail:   "admin@example.com",
		})
		err := m.SendNewCustomerNotification("Asha Rao", "9999900000", "blouse")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid from address")
	})
}
