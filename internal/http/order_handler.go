package http

import (
	"encoding/json"
	"net/http"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// OrderHandler handles HTTP requests related to orders
type OrderHandler struct {
	orderService *service.OrderService
	logger       logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// RegisterRoutes registers the order-related routes
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/orders", requireAuth(http.HandlerFunc(h.ListOrders)))
	mux.Handle("POST /api/orders", requireAuth(http.HandlerFunc(h.CreateOrder)))
	mux.Handle("GET /api/orders/{id}", requireAuth(http.HandlerFunc(h.GetOrder)))
	mux.Handle("PATCH /api/orders/{id}", requireAuth(http.HandlerFunc(h.UpdateOrder)))
}

// CreateOrder handles creation of a new order, optionally with embedded
// measurements.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListOrders lists orders for one customer, addressed by id or phone
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	phone := r.URL.Query().Get("phone")

	var (
		orders []*domain.Order
		err    error
	)
	switch {
	case customerID != "":
		orders, err = h.orderService.ListOrdersByCustomer(r.Context(), customerID)
	case phone != "":
		orders, err = h.orderService.ListOrdersByPhone(r.Context(), phone)
	default:
		WriteJSONError(w, "customerId or phone query parameter required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, "list orders", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles retrieval of an order by ID
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrder handles partial updates; status changes are mirrored to
// the customer's sheet ledger.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, h.logger, "update order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
