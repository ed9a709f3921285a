package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = domain.NextOrderNumber()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	query := `
		INSERT INTO orders (id, order_number, customer_id, customer_phone, garment_type, status, notes, delivery_date, measurement_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerPhone,
		order.GarmentType,
		order.Status,
		nullString(order.Notes),
		order.DeliveryDate,
		nullString(order.MeasurementID),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOrder(ctx, "id = $1", id)
}

func (r *orderRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.getOrder(ctx, "order_number = $1", orderNumber)
}

const orderColumns = `id, order_number, customer_id, customer_phone, garment_type, status, notes, delivery_date, measurement_id, created_at, updated_at`

func (r *orderRepository) getOrder(ctx context.Context, where string, arg interface{}) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s`, orderColumns, where)
	row := r.db.QueryRowContext(ctx, query, arg)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("order", fmt.Sprintf("%v", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"customer_id": customerID})
}

func (r *orderRepository) ListOrdersByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"customer_phone": phone})
}

func (r *orderRepository) listOrders(ctx context.Context, pred interface{}) ([]*domain.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"id", "order_number", "customer_id", "customer_phone", "garment_type",
		"status", "notes", "delivery_date", "measurement_id", "created_at", "updated_at",
	).From("orders").Where(pred).OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build orders query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE orders
		SET status = $1, notes = $2, delivery_date = $3, measurement_id = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		order.Status,
		nullString(order.Notes),
		order.DeliveryDate,
		nullString(order.MeasurementID),
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewErrNotFound("order", order.ID)
	}
	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o             domain.Order
		notes         sql.NullString
		deliveryDate  sql.NullTime
		measurementID sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerPhone, &o.GarmentType,
		&o.Status, &notes, &deliveryDate, &measurementID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Notes = notes.String
	if deliveryDate.Valid {
		o.DeliveryDate = &deliveryDate.Time
	}
	o.MeasurementID = measurementID.String
	return &o, nil
}
