package domain

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

//go:generate mockgen -destination mocks/mock_order_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain OrderRepository

// OrderStatus follows the linear workshop progression. Transitions are
// not enforced; the sheet ledger records whatever the shop sets.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusMeasuring OrderStatus = "measuring"
	OrderStatusCutting   OrderStatus = "cutting"
	OrderStatusStitching OrderStatus = "stitching"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

// IsValid reports whether the status is one of the known workshop states
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusMeasuring, OrderStatusCutting,
		OrderStatusStitching, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerID    string      `json:"customerId"`
	CustomerPhone string      `json:"customerPhone"`
	GarmentType   string      `json:"garmentType"`
	Status        OrderStatus `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	DeliveryDate  *time.Time  `json:"deliveryDate,omitempty"`
	MeasurementID string      `json:"measurementId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// CreateOrderRequest is the payload for POST /api/orders
type CreateOrderRequest struct {
	CustomerPhone string           `json:"customerPhone"`
	GarmentType   string           `json:"garmentType"`
	Status        OrderStatus      `json:"status,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	DeliveryDate  *time.Time       `json:"deliveryDate,omitempty"`
	Measurements  *MeasurementData `json:"measurements,omitempty"`
}

func (r *CreateOrderRequest) Validate() error {
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	if r.CustomerPhone == "" {
		return NewValidationError("customerPhone is required")
	}
	if strings.TrimSpace(r.GarmentType) == "" {
		return NewValidationError("garmentType is required")
	}
	if r.Status == "" {
		r.Status = OrderStatusNew
	}
	if !r.Status.IsValid() {
		return NewValidationError(fmt.Sprintf("invalid status: %s", r.Status))
	}
	return nil
}

// UpdateOrderRequest is the payload for PATCH /api/orders/{id}
type UpdateOrderRequest struct {
	Status       *OrderStatus `json:"status,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	DeliveryDate *time.Time   `json:"deliveryDate,omitempty"`
}

func (r *UpdateOrderRequest) Validate() error {
	if r.Status == nil && r.Notes == nil && r.DeliveryDate == nil {
		return NewValidationError("at least one field is required")
	}
	if r.Status != nil && !r.Status.IsValid() {
		return NewValidationError(fmt.Sprintf("invalid status: %s", *r.Status))
	}
	return nil
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListOrdersByPhone(ctx context.Context, phone string) ([]*Order, error)
	UpdateOrder(ctx context.Context, order *Order) error
}

// lastOrderNumber holds the most recently issued numeric order suffix.
// Seeding from the wall clock keeps numbers human-sortable; the atomic
// bump guarantees uniqueness when two orders land in the same
// millisecond, which the wall clock alone cannot.
var lastOrderNumber atomic.Int64

// NextOrderNumber issues a process-unique order number of the form
// ORD-{n}, strictly increasing across calls.
func NextOrderNumber() string {
	for {
		now := time.Now().UnixMilli()
		last := lastOrderNumber.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if lastOrderNumber.CompareAndSwap(last, next) {
			return fmt.Sprintf("ORD-%d", next)
		}
	}
}
