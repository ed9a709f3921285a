package domain

import (
	"context"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_measurement_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain MeasurementRepository

// SheetHeader is the fixed 13-column header row of every customer
// measurement sheet. Column order is part of the ledger format:
// UpdateOrderStatus patches columns L (status) and M (delivery date)
// by position.
var SheetHeader = []string{
	"Order Number", "Date", "Garment Type", "Chest", "Waist", "Hips",
	"Shoulder", "Sleeves", "Length", "Inseam", "Notes", "Status",
	"Delivery Date",
}

// Measurement is the relational mirror of one sheet ledger row.
// All dimensions are free-text as entered by the tailor.
type Measurement struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	GarmentType string    `json:"garmentType"`
	Chest       string    `json:"chest,omitempty"`
	Waist       string    `json:"waist,omitempty"`
	Hips        string    `json:"hips,omitempty"`
	Shoulder    string    `json:"shoulder,omitempty"`
	Sleeves     string    `json:"sleeves,omitempty"`
	Length      string    `json:"length,omitempty"`
	Inseam      string    `json:"inseam,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	SheetRow    int       `json:"sheetRow,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MeasurementData is the garment dimensions payload for
// POST /api/customers/{id}/measurements and embedded order creation.
type MeasurementData struct {
	GarmentType  string     `json:"garmentType"`
	Chest        string     `json:"chest,omitempty"`
	Waist        string     `json:"waist,omitempty"`
	Hips         string     `json:"hips,omitempty"`
	Shoulder     string     `json:"shoulder,omitempty"`
	Sleeves      string     `json:"sleeves,omitempty"`
	Length       string     `json:"length,omitempty"`
	Inseam       string     `json:"inseam,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

func (d *MeasurementData) Validate() error {
	d.GarmentType = strings.TrimSpace(d.GarmentType)
	if d.GarmentType == "" {
		return NewValidationError("garmentType is required")
	}
	return nil
}

// SheetMeasurementRow is one data row read back from a customer sheet.
type SheetMeasurementRow struct {
	RowIndex     int    `json:"rowIndex"`
	OrderNumber  string `json:"orderNumber"`
	Date         string `json:"date"`
	GarmentType  string `json:"garmentType"`
	Chest        string `json:"chest,omitempty"`
	Waist        string `json:"waist,omitempty"`
	Hips         string `json:"hips,omitempty"`
	Shoulder     string `json:"shoulder,omitempty"`
	Sleeves      string `json:"sleeves,omitempty"`
	Length       string `json:"length,omitempty"`
	Inseam       string `json:"inseam,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
}

type MeasurementRepository interface {
	CreateMeasurement(ctx context.Context, m *Measurement) error
	GetMeasurementByID(ctx context.Context, id string) (*Measurement, error)
	ListMeasurementsByOrder(ctx context.Context, orderID string) ([]*Measurement, error)
	ListMeasurementsByPhone(ctx context.Context, phone string) ([]*Measurement, error)
}
