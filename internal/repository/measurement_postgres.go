package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type measurementRepository struct {
	db *sql.DB
}

// NewMeasurementRepository creates a new PostgreSQL measurement repository
func NewMeasurementRepository(db *sql.DB) domain.MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) CreateMeasurement(ctx context.Context, m *domain.Measurement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO measurements (id, order_id, garment_type, chest, waist, hips, shoulder, sleeves, length, inseam, notes, sheet_row, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.OrderID,
		m.GarmentType,
		nullString(m.Chest),
		nullString(m.Waist),
		nullString(m.Hips),
		nullString(m.Shoulder),
		nullString(m.Sleeves),
		nullString(m.Length),
		nullString(m.Inseam),
		nullString(m.Notes),
		sql.NullInt64{Int64: int64(m.SheetRow), Valid: m.SheetRow > 0},
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create measurement: %w", err)
	}
	return nil
}

const measurementColumns = `id, order_id, garment_type, chest, waist, hips, shoulder, sleeves, length, inseam, notes, sheet_row, created_at`

func (r *measurementRepository) GetMeasurementByID(ctx context.Context, id string) (*domain.Measurement, error) {
	query := fmt.Sprintf(`SELECT %s FROM measurements WHERE id = $1`, measurementColumns)
	row := r.db.QueryRowContext(ctx, query, id)
	m, err := scanMeasurement(row)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("measurement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return m, nil
}

func (r *measurementRepository) ListMeasurementsByOrder(ctx context.Context, orderID string) ([]*domain.Measurement, error) {
	query := fmt.Sprintf(`SELECT %s FROM measurements WHERE order_id = $1 ORDER BY created_at`, measurementColumns)
	return r.listMeasurements(ctx, query, orderID)
}

// ListMeasurementsByPhone joins through orders because measurements do
// not carry the customer phone themselves.
func (r *measurementRepository) ListMeasurementsByPhone(ctx context.Context, phone string) ([]*domain.Measurement, error) {
	query := `
		SELECT m.id, m.order_id, m.garment_type, m.chest, m.waist, m.hips, m.shoulder, m.sleeves, m.length, m.inseam, m.notes, m.sheet_row, m.created_at
		FROM measurements m
		JOIN orders o ON o.id = m.order_id
		WHERE o.customer_phone = $1
		ORDER BY m.created_at
	`
	return r.listMeasurements(ctx, query, phone)
}

func (r *measurementRepository) listMeasurements(ctx context.Context, query string, arg interface{}) ([]*domain.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	measurements := make([]*domain.Measurement, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate measurements: %w", err)
	}
	return measurements, nil
}

func scanMeasurement(row rowScanner) (*domain.Measurement, error) {
	var (
		m        domain.Measurement
		cols     [8]sql.NullString
		sheetRow sql.NullInt64
	)
	err := row.Scan(
		&m.ID, &m.OrderID, &m.GarmentType,
		&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7],
		&sheetRow, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Chest = cols[0].String
	m.Waist = cols[1].String
	m.Hips = cols[2].String
	m.Shoulder = cols[3].String
	m.Sleeves = cols[4].String
	m.Length = cols[5].String
	m.Inseam = cols[6].String
	m.Notes = cols[7].String
	m.SheetRow = int(sheetRow.Int64)
	return &m, nil
}
