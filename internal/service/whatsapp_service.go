package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/stitchdesk/stitchdesk/config"
	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// WhatsAppService implements domain.MessageSender over the Twilio
// messages API.
type WhatsAppService struct {
	cfg        *config.TwilioConfig
	logger     logger.Logger
	httpClient *http.Client
	apiBase    string
}

// NewWhatsAppService creates a Twilio WhatsApp sender
func NewWhatsAppService(cfg *config.TwilioConfig, logger logger.Logger, httpClient *http.Client) *WhatsAppService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WhatsAppService{
		cfg:        cfg,
		logger:     logger,
		httpClient: httpClient,
		apiBase:    twilioAPIBase,
	}
}

// SendWhatsApp sends one message and returns the Twilio message SID.
func (s *WhatsAppService) SendWhatsApp(ctx context.Context, phone, message string) (string, error) {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" {
		return "", &domain.ErrExternalService{
			Service: "twilio",
			Op:      "send message",
			Err:     fmt.Errorf("credentials not configured, set TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN"),
		}
	}

	to := phone
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	form := url.Values{}
	form.Set("Body", message)
	form.Set("From", s.cfg.WhatsAppFrom)
	form.Set("To", to)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.apiBase, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &domain.ErrExternalService{Service: "twilio", Op: "send message", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ErrExternalService{Service: "twilio", Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerMessage := gjson.GetBytes(body, "message").String()
		if providerMessage == "" {
			providerMessage = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", &domain.ErrExternalService{Service: "twilio", Op: "send message", Err: fmt.Errorf("%s", providerMessage)}
	}

	sid := gjson.GetBytes(body, "sid").String()
	s.logger.WithFields(map[string]interface{}{
		"sid": sid,
		"to":  to,
	}).Info("WhatsApp message sent")
	return sid, nil
}

// SendWorkshopMessage sends a message to the configured workshop phone.
func (s *WhatsAppService) SendWorkshopMessage(ctx context.Context, message string) (string, error) {
	if s.cfg.WorkshopPhone == "" {
		return "", domain.NewValidationError("workshop phone is not configured")
	}
	return s.SendWhatsApp(ctx, s.cfg.WorkshopPhone, message)
}

// WorkshopOrderMessage formats the notification for a new order headed
// to the workshop.
func WorkshopOrderMessage(customerName, orderNumber, garmentType string) string {
	return fmt.Sprintf("New order ready to send to workshop:\n\nCustomer: %s\nOrder #: %s\nGarment: %s\n\nPlease process this order.",
		customerName, orderNumber, garmentType)
}

// WhatsAppURL builds a wa.me link with a pre-filled message, the
// fallback path when Twilio is unavailable.
func WhatsAppURL(phone, message string) string {
	cleaned := nonPhoneChars.ReplaceAllString(phone, "")
	return fmt.Sprintf("https://wa.me/%s?text=%s", cleaned, url.QueryEscape(message))
}
