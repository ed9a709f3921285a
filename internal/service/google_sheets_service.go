package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// The measurement ledger lives on one tab named Orders. Column A holds
// the order number, columns L and M hold status and delivery date.
const (
	sheetTabName    = "Orders"
	sheetDataRange  = sheetTabName + "!A2:M"
	sheetAppendWide = sheetTabName + "!A:M"
	sheetHeaderRow  = sheetTabName + "!A1:M1"
)

var appendedRowPattern = regexp.MustCompile(sheetTabName + `!A(\d+)`)

// GoogleSheetsService implements domain.SheetsService against the
// Sheets v4 API, using the Drive adapter for spreadsheet lookup and
// folder placement.
type GoogleSheetsService struct {
	tokens  domain.TokenProvider
	drive   *GoogleDriveService
	logger  logger.Logger
	timeout time.Duration

	// extraOpts lets tests point the client at a local server.
	extraOpts []option.ClientOption
}

// NewGoogleSheetsService creates a Sheets adapter
func NewGoogleSheetsService(tokens domain.TokenProvider, drive *GoogleDriveService, logger logger.Logger, timeout time.Duration) *GoogleSheetsService {
	return &GoogleSheetsService{
		tokens:  tokens,
		drive:   drive,
		logger:  logger,
		timeout: timeout,
	}
}

func (s *GoogleSheetsService) client(ctx context.Context) (*sheets.Service, error) {
	accessToken, err := s.tokens.GetAccessToken(ctx, domain.GoogleService)
	if err != nil {
		return nil, err
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(source)}, s.extraOpts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "sheets", Op: "create client", Err: err}
	}
	return svc, nil
}

// EnsureMeasurementSheet finds the customer spreadsheet inside folderID
// or creates it with the fixed header row and moves it into the folder.
func (s *GoogleSheetsService) EnsureMeasurementSheet(ctx context.Context, phone, name, folderID string) (string, error) {
	existing, err := s.drive.findSpreadsheetInFolder(ctx, folderID)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	svc, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	spreadsheet, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: fmt.Sprintf("%s - Measurements", phone),
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTabName}},
		},
	}).Context(callCtx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "sheets", Op: "create spreadsheet", Err: err}
	}
	sheetID := spreadsheet.SpreadsheetId

	if err := s.drive.moveFileToFolder(ctx, sheetID, folderID); err != nil {
		return "", err
	}

	header := make([]interface{}, len(domain.SheetHeader))
	for i, col := range domain.SheetHeader {
		header[i] = col
	}
	_, err = svc.Spreadsheets.Values.Update(sheetID, sheetHeaderRow, &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(callCtx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "sheets", Op: "write header row", Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"sheet_id": sheetID,
		"phone":    phone,
	}).Info("Created measurement sheet")
	return sheetID, nil
}

// AppendMeasurementRow appends one ledger row and returns its 1-based
// row index parsed from the reported update range.
func (s *GoogleSheetsService) AppendMeasurementRow(ctx context.Context, sheetID, orderNumber string, m *domain.MeasurementData) (int, error) {
	svc, err := s.client(ctx)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deliveryDate := ""
	if m.DeliveryDate != nil {
		deliveryDate = m.DeliveryDate.Format("2006-01-02")
	}
	row := []interface{}{
		orderNumber,
		time.Now().UTC().Format("2006-01-02"),
		m.GarmentType,
		m.Chest,
		m.Waist,
		m.Hips,
		m.Shoulder,
		m.Sleeves,
		m.Length,
		m.Inseam,
		m.Notes,
		string(domain.OrderStatusNew),
		deliveryDate,
	}

	resp, err := svc.Spreadsheets.Values.Append(sheetID, sheetAppendWide, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "sheets", Op: "append measurement row", Err: err}
	}

	return parseAppendedRow(resp), nil
}

func parseAppendedRow(resp *sheets.AppendValuesResponse) int {
	if resp == nil || resp.Updates == nil {
		return 0
	}
	match := appendedRowPattern.FindStringSubmatch(resp.Updates.UpdatedRange)
	if match == nil {
		return 0
	}
	var row int
	fmt.Sscanf(match[1], "%d", &row)
	return row
}

// UpdateOrderStatus scans column A for orderNumber and patches only
// that row's status and delivery-date cells. Linear in the number of
// ledger rows; sheets are per-customer and small.
func (s *GoogleSheetsService) UpdateOrderStatus(ctx context.Context, sheetID, orderNumber string, status domain.OrderStatus, deliveryDate *time.Time) error {
	svc, err := s.client(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := svc.Spreadsheets.Values.Get(sheetID, sheetDataRange).Context(ctx).Do()
	if err != nil {
		return &domain.ErrExternalService{Service: "sheets", Op: "read ledger", Err: err}
	}

	rowIndex := 0
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == orderNumber {
			rowIndex = i + 2 // data starts at row 2
			break
		}
	}
	if rowIndex == 0 {
		return domain.NewErrNotFound("sheet row", orderNumber)
	}

	patch := []interface{}{string(status)}
	if deliveryDate != nil {
		patch = append(patch, deliveryDate.Format("2006-01-02"))
	}
	patchRange := fmt.Sprintf("%s!L%d:M%d", sheetTabName, rowIndex, rowIndex)
	_, err = svc.Spreadsheets.Values.Update(sheetID, patchRange, &sheets.ValueRange{
		Values: [][]interface{}{patch},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return &domain.ErrExternalService{Service: "sheets", Op: "patch order status", Err: err}
	}
	return nil
}

// ListMeasurementRows reads the whole ledger in sheet order. No cache,
// no pagination: each read reflects the sheet as-is.
func (s *GoogleSheetsService) ListMeasurementRows(ctx context.Context, sheetID string) ([]*domain.SheetMeasurementRow, error) {
	svc, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := svc.Spreadsheets.Values.Get(sheetID, sheetDataRange).Context(ctx).Do()
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "sheets", Op: "read ledger", Err: err}
	}

	rows := make([]*domain.SheetMeasurementRow, 0, len(resp.Values))
	for i, raw := range resp.Values {
		cell := func(idx int) string {
			if idx < len(raw) {
				return fmt.Sprint(raw[idx])
			}
			return ""
		}
		rows = append(rows, &domain.SheetMeasurementRow{
			RowIndex:     i + 2,
			OrderNumber:  cell(0),
			Date:         cell(1),
			GarmentType:  cell(2),
			Chest:        cell(3),
			Waist:        cell(4),
			Hips:         cell(5),
			Shoulder:     cell(6),
			Sleeves:      cell(7),
			Length:       cell(8),
			Inseam:       cell(9),
			Notes:        cell(10),
			Status:       cell(11),
			DeliveryDate: cell(12),
		})
	}
	return rows, nil
}
