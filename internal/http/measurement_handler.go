package http

import (
	"net/http"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// MeasurementHandler handles HTTP requests related to stored measurements
// and the sheet ledger history.
type MeasurementHandler struct {
	orderService *service.OrderService
	logger       logger.Logger
}

func NewMeasurementHandler(orderService *service.OrderService, logger logger.Logger) *MeasurementHandler {
	return &MeasurementHandler{orderService: orderService, logger: logger}
}

// RegisterRoutes registers the measurement-related routes
func (h *MeasurementHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/measurements", requireAuth(http.HandlerFunc(h.ListMeasurements)))
	mux.Handle("GET /api/measurements/history/{phone}", requireAuth(http.HandlerFunc(h.GetHistory)))
}

// ListMeasurements lists stored measurement records by order or phone
func (h *MeasurementHandler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	phone := r.URL.Query().Get("phone")

	var (
		measurements []*domain.Measurement
		err          error
	)
	switch {
	case orderID != "":
		measurements, err = h.orderService.ListMeasurementsByOrder(r.Context(), orderID)
	case phone != "":
		measurements, err = h.orderService.ListMeasurementsByPhone(r.Context(), phone)
	default:
		WriteJSONError(w, "orderId or phone query parameter required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, "list measurements", err)
		return
	}
	writeJSON(w, http.StatusOK, measurements)
}

// GetHistory reads the customer's full sheet ledger by phone
func (h *MeasurementHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.orderService.GetMeasurementHistory(r.Context(), r.PathValue("phone"))
	if err != nil {
		writeServiceError(w, h.logger, "get measurement history", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
