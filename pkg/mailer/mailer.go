package mailer

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=pkgmocks github.com/stitchdesk/stitchdesk/pkg/mailer Mailer

// Mailer is the interface for sending admin notification emails
type Mailer interface {
	// SendNewCustomerNotification notifies the admin that a customer
	// record was created.
	SendNewCustomerNotification(customerName, customerPhone, itemType string) error
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string
}

// IsConfigured reports whether enough settings are present to send mail
func (c *Config) IsConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.AdminEmail != ""
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// NewTestSMTPMailer creates a new SMTP mailer in test mode (won't connect to SMTP server)
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config, testMode: true}
}

// SendNewCustomerNotification sends the new-customer email to the
// configured admin address. Missing configuration is not an error:
// notification mail is best-effort and silently skipped.
func (m *SMTPMailer) SendNewCustomerNotification(customerName, customerPhone, itemType string) error {
	if !m.config.IsConfigured() {
		return nil
	}
	if itemType == "" {
		itemType = "garment"
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.config.AdminEmail); err != nil {
		return fmt.Errorf("invalid admin address: %w", err)
	}
	msg.Subject("New Customer Record Created")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("New customer record: %s for %s (%s)", itemType, customerName, customerPhone))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>New Customer Record</h2>
			<p><strong>Item:</strong> %s</p>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Phone:</strong> %s</p>
		</div>
	`, itemType, customerName, customerPhone))

	if m.testMode {
		return nil
	}

	client, err := mail.NewClient(m.config.SMTPHost,
		mail.WithPort(m.config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.SMTPUsername),
		mail.WithPassword(m.config.SMTPPassword),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
