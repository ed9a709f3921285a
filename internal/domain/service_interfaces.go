package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_drive_service.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain DriveService
//go:generate mockgen -destination mocks/mock_sheets_service.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain SheetsService
//go:generate mockgen -destination mocks/mock_message_sender.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain MessageSender
//go:generate mockgen -destination mocks/mock_token_provider.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain TokenProvider

// TokenProvider supplies a valid Google bearer token, refreshing and
// persisting it as needed.
type TokenProvider interface {
	GetAccessToken(ctx context.Context, service string) (string, error)
}

// DriveService models the per-customer folder hierarchy in the document
// store. Folder creation is lookup-before-create: safe to call
// concurrently for the same phone, with a documented small risk of a
// duplicate folder when two first-time signups race (the store is not
// transactional).
type DriveService interface {
	// EnsureCustomerFolder finds or creates the "{phone} - {name}"
	// folder under the root folder and returns its ID.
	EnsureCustomerFolder(ctx context.Context, phone, name string) (folderID string, created bool, err error)
	UploadImage(ctx context.Context, folderID, fileName, mimeType string, data []byte) (fileID string, err error)
	RenameFolder(ctx context.Context, folderID, newName string) error
}

// SheetsService models the one-spreadsheet-per-customer measurement
// ledger.
type SheetsService interface {
	// EnsureMeasurementSheet finds or creates the customer spreadsheet
	// inside folderID, writing the fixed header row on creation.
	EnsureMeasurementSheet(ctx context.Context, phone, name, folderID string) (sheetID string, err error)
	// AppendMeasurementRow appends one ledger row and returns its
	// 1-based row index parsed from the reported range.
	AppendMeasurementRow(ctx context.Context, sheetID, orderNumber string, m *MeasurementData) (rowIndex int, err error)
	// UpdateOrderStatus linearly scans for orderNumber and patches only
	// that row's status and delivery-date columns. O(n) per update;
	// acceptable because sheets are per-customer and small.
	UpdateOrderStatus(ctx context.Context, sheetID, orderNumber string, status OrderStatus, deliveryDate *time.Time) error
	// ListMeasurementRows reads the whole ledger, in sheet order.
	ListMeasurementRows(ctx context.Context, sheetID string) ([]*SheetMeasurementRow, error)
}

// MessageSender dispatches one notification message and returns the
// provider's message ID.
type MessageSender interface {
	SendWhatsApp(ctx context.Context, phone, message string) (sid string, err error)
}
