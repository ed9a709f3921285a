package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

type OrderService struct {
	orders       domain.OrderRepository
	customers    domain.CustomerRepository
	measurements domain.MeasurementRepository
	sheets       domain.SheetsService
	logger       logger.Logger
}

func NewOrderService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	measurements domain.MeasurementRepository,
	sheets domain.SheetsService,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orders:       orders,
		customers:    customers,
		measurements: measurements,
		sheets:       sheets,
		logger:       logger,
	}
}

// CreateOrder records a new order for an already-registered customer.
// When the request embeds measurements the ledger row is appended to the
// customer sheet and mirrored into the measurements table.
func (s *OrderService) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetCustomerByPhone(ctx, req.CustomerPhone)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerID:    customer.ID,
		CustomerPhone: customer.Phone,
		GarmentType:   req.GarmentType,
		Status:        req.Status,
		Notes:         req.Notes,
		DeliveryDate:  req.DeliveryDate,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if req.Measurements != nil {
		if err := s.recordMeasurement(ctx, customer, order, req.Measurements); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// AddMeasurements is the measurement-first flow: a sitting with the tape
// opens a new order in the measuring state and writes the ledger row.
func (s *OrderService) AddMeasurements(ctx context.Context, customerID string, data *domain.MeasurementData) (*domain.Order, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerID:    customer.ID,
		CustomerPhone: customer.Phone,
		GarmentType:   data.GarmentType,
		Status:        domain.OrderStatusMeasuring,
		Notes:         data.Notes,
		DeliveryDate:  data.DeliveryDate,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.recordMeasurement(ctx, customer, order, data); err != nil {
		return nil, err
	}
	return order, nil
}

// recordMeasurement appends the sheet ledger row, then mirrors it into
// the measurements table and links the order to the measurement record.
func (s *OrderService) recordMeasurement(ctx context.Context, customer *domain.Customer, order *domain.Order, data *domain.MeasurementData) error {
	if customer.SheetID == "" {
		return domain.NewErrNotFound("measurement sheet", customer.ID)
	}

	rowIndex, err := s.sheets.AppendMeasurementRow(ctx, customer.SheetID, order.OrderNumber, data)
	if err != nil {
		return fmt.Errorf("failed to append measurement row: %w", err)
	}

	m := &domain.Measurement{
		OrderID:     order.ID,
		GarmentType: data.GarmentType,
		Chest:       data.Chest,
		Waist:       data.Waist,
		Hips:        data.Hips,
		Shoulder:    data.Shoulder,
		Sleeves:     data.Sleeves,
		Length:      data.Length,
		Inseam:      data.Inseam,
		Notes:       data.Notes,
		SheetRow:    rowIndex,
	}
	if err := s.measurements.CreateMeasurement(ctx, m); err != nil {
		return fmt.Errorf("failed to store measurement: %w", err)
	}

	order.MeasurementID = m.ID
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to link measurement to order: %w", err)
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}

func (s *OrderService) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

func (s *OrderService) ListOrdersByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	return s.orders.ListOrdersByPhone(ctx, phone)
}

// UpdateOrder persists the change to the database and then mirrors the
// status into the sheet ledger. The database is the system of record:
// a ledger write failure is logged, not surfaced, and the next status
// change retries the mirror.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil && *req.Status != order.Status {
		order.Status = *req.Status
		statusChanged = true
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
		statusChanged = true
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if statusChanged {
		s.mirrorStatusToSheet(ctx, order)
	}
	return order, nil
}

func (s *OrderService) mirrorStatusToSheet(ctx context.Context, order *domain.Order) {
	customer, err := s.customers.GetCustomerByID(ctx, order.CustomerID)
	if err != nil || customer.SheetID == "" {
		s.logger.WithField("order_id", order.ID).
			Warn("Skipping sheet status mirror: customer sheet unavailable")
		return
	}
	if err := s.sheets.UpdateOrderStatus(ctx, customer.SheetID, order.OrderNumber, order.Status, order.DeliveryDate); err != nil {
		s.logger.WithField("order_id", order.ID).
			WithField("order_number", order.OrderNumber).
			Error(fmt.Sprintf("Failed to mirror order status to sheet: %v", err))
	}
}

// GetMeasurementHistory reads the customer's full sheet ledger, keyed
// by phone like the sheet itself.
func (s *OrderService) GetMeasurementHistory(ctx context.Context, phone string) ([]*domain.SheetMeasurementRow, error) {
	customer, err := s.customers.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if customer.SheetID == "" {
		return []*domain.SheetMeasurementRow{}, nil
	}
	rows, err := s.sheets.ListMeasurementRows(ctx, customer.SheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read measurement history: %w", err)
	}
	return rows, nil
}

func (s *OrderService) ListMeasurementsByOrder(ctx context.Context, orderID string) ([]*domain.Measurement, error) {
	return s.measurements.ListMeasurementsByOrder(ctx, orderID)
}

func (s *OrderService) ListMeasurementsByPhone(ctx context.Context, phone string) ([]*domain.Measurement, error) {
	return s.measurements.ListMeasurementsByPhone(ctx, phone)
}
