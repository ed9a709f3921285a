package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_customer_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain CustomerRepository

// Customer is the relational record for one shop customer. Phone is the
// natural key used for lookups against the Drive/Sheets store; the
// folder naming convention is "{phone} - {name}".
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	DriveFolderID string    `json:"driveFolderId,omitempty"`
	SheetID       string    `json:"sheetId,omitempty"`
	TailorID      string    `json:"tailorId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FolderName returns the Drive folder name for this customer
func (c *Customer) FolderName() string {
	return CustomerFolderName(c.Phone, c.Name)
}

// CustomerFolderName builds the "{phone} - {name}" folder naming convention
func CustomerFolderName(phone, name string) string {
	return fmt.Sprintf("%s - %s", phone, name)
}

// CreateCustomerRequest is the payload for POST /api/customers. ItemType
// only feeds the admin notification email and is not stored.
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	TailorID string `json:"tailorId,omitempty"`
	ItemType string `json:"itemType,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)

	if r.Name == "" {
		return NewValidationError("name is required")
	}
	if r.Phone == "" {
		return NewValidationError("phone is required")
	}
	if r.Email != "" && !govalidator.IsEmail(r.Email) {
		return NewValidationError("email is invalid")
	}
	return nil
}

// UpdateCustomerRequest carries the mutable customer fields; nil means
// leave the field unchanged. Phone is immutable, it anchors the Drive
// folder and sheet naming.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return NewValidationError("name cannot be empty")
		}
		*r.Name = trimmed
	}
	if r.Email != nil {
		*r.Email = strings.TrimSpace(*r.Email)
		if *r.Email != "" && !govalidator.IsEmail(*r.Email) {
			return NewValidationError("email is invalid")
		}
	}
	return nil
}

type CustomerRepository interface {
	// UpsertByPhone inserts the customer or, when a row with the same
	// phone exists, returns that row untouched and reports reused=true.
	UpsertByPhone(ctx context.Context, customer *Customer) (reused bool, err error)
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*Customer, error)
	ListCustomers(ctx context.Context, tailorID string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customer *Customer) error
}
