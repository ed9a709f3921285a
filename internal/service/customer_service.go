package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
	"github.com/stitchdesk/stitchdesk/pkg/mailer"
)

// ImageUpload is a reference photo attached to a customer record.
type ImageUpload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// CreateCustomerResult reports what provisioning happened alongside the record.
type CreateCustomerResult struct {
	Customer      *domain.Customer `json:"customer"`
	Reused        bool             `json:"reused"`
	UploadedFiles []string         `json:"uploadedFiles,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
}

type CustomerService struct {
	repo   domain.CustomerRepository
	drive  domain.DriveService
	sheets domain.SheetsService
	mailer mailer.Mailer
	logger logger.Logger
}

func NewCustomerService(
	repo domain.CustomerRepository,
	drive domain.DriveService,
	sheets domain.SheetsService,
	m mailer.Mailer,
	logger logger.Logger,
) *CustomerService {
	return &CustomerService{
		repo:   repo,
		drive:  drive,
		sheets: sheets,
		mailer: m,
		logger: logger,
	}
}

// CreateCustomer upserts the customer record by phone and provisions the
// Drive folder and measurement spreadsheet for it. Calling it again with
// the same phone reuses the existing record and its Drive assets.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest, images []ImageUpload) (*CreateCustomerResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		TailorID: req.TailorID,
	}

	reused, err := s.repo.UpsertByPhone(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	result := &CreateCustomerResult{Customer: customer, Reused: reused}

	if err := s.ensureDriveAssets(ctx, customer); err != nil {
		return nil, err
	}

	for _, img := range images {
		if _, err := s.drive.UploadImage(ctx, customer.DriveFolderID, img.Filename, img.MIMEType, img.Data); err != nil {
			// Upload failures do not fail the request, the record and
			// folder already exist and photos can be re-uploaded.
			s.logger.WithField("customer_id", customer.ID).
				WithField("filename", img.Filename).
				Error(fmt.Sprintf("Failed to upload customer image: %v", err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to upload %s", img.Filename))
			continue
		}
		result.UploadedFiles = append(result.UploadedFiles, img.Filename)
	}

	if !reused && s.mailer != nil {
		if err := s.mailer.SendNewCustomerNotification(customer.Name, customer.Phone, req.ItemType); err != nil {
			s.logger.WithField("customer_id", customer.ID).
				Warn(fmt.Sprintf("Failed to send new customer notification: %v", err))
		}
	}

	return result, nil
}

// ensureDriveAssets provisions the customer folder and measurement sheet,
// persisting the Drive IDs on the record the first time through.
func (s *CustomerService) ensureDriveAssets(ctx context.Context, customer *domain.Customer) error {
	changed := false

	folderID, created, err := s.drive.EnsureCustomerFolder(ctx, customer.Phone, customer.Name)
	if err != nil {
		return fmt.Errorf("failed to ensure customer folder: %w", err)
	}
	if customer.DriveFolderID != folderID {
		customer.DriveFolderID = folderID
		changed = true
	}
	if created {
		s.logger.WithField("customer_id", customer.ID).
			WithField("folder_id", folderID).
			Info("Created customer Drive folder")
	}

	sheetID, err := s.sheets.EnsureMeasurementSheet(ctx, customer.Phone, customer.Name, folderID)
	if err != nil {
		return fmt.Errorf("failed to ensure measurement sheet: %w", err)
	}
	if customer.SheetID != sheetID {
		customer.SheetID = sheetID
		changed = true
	}

	if changed {
		customer.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
			return fmt.Errorf("failed to persist drive ids: %w", err)
		}
	}
	return nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *CustomerService) GetCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return s.repo.GetCustomerByPhone(ctx, phone)
}

func (s *CustomerService) ListCustomers(ctx context.Context, tailorID string) ([]*domain.Customer, error) {
	return s.repo.ListCustomers(ctx, tailorID)
}

// UpdateCustomer applies the mutable fields and renames the Drive folder
// when the display name changes so the folder keeps its "{phone} - {name}"
// convention.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nameChanged := false
	if req.Name != nil && *req.Name != customer.Name {
		customer.Name = *req.Name
		nameChanged = true
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	if nameChanged && customer.DriveFolderID != "" {
		newName := customer.FolderName()
		if err := s.drive.RenameFolder(ctx, customer.DriveFolderID, newName); err != nil {
			s.logger.WithField("customer_id", customer.ID).
				Warn(fmt.Sprintf("Failed to rename customer folder: %v", err))
		}
	}

	return customer, nil
}
