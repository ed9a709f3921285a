package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

const (
	maxUploadBytes = 32 << 20
	maxImageCount  = 10
)

// CustomerHandler handles HTTP requests related to customers
type CustomerHandler struct {
	customerService *service.CustomerService
	orderService    *service.OrderService
	logger          logger.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	customerService *service.CustomerService,
	orderService *service.OrderService,
	logger logger.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		orderService:    orderService,
		logger:          logger,
	}
}

// RegisterRoutes registers the customer-related routes
func (h *CustomerHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/customers", requireAuth(http.HandlerFunc(h.ListCustomers)))
	mux.Handle("POST /api/customers", requireAuth(http.HandlerFunc(h.CreateCustomer)))
	mux.Handle("GET /api/customers/{id}", requireAuth(http.HandlerFunc(h.GetCustomer)))
	mux.Handle("PATCH /api/customers/{id}", requireAuth(http.HandlerFunc(h.UpdateCustomer)))
	mux.Handle("GET /api/customers/phone/{phone}", requireAuth(http.HandlerFunc(h.GetCustomerByPhone)))
	mux.Handle("POST /api/customers/{id}/measurements", requireAuth(http.HandlerFunc(h.AddMeasurements)))
}

// CreateCustomer handles creation of a customer record with optional
// reference photos. Accepts multipart form data (fields plus an
// images[] part) or a plain JSON body.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var (
		req    domain.CreateCustomerRequest
		images []service.ImageUpload
	)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			WriteJSONError(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		req = domain.CreateCustomerRequest{
			Name:     r.FormValue("name"),
			Phone:    r.FormValue("phone"),
			Email:    r.FormValue("email"),
			Address:  r.FormValue("address"),
			TailorID: r.FormValue("tailorId"),
			ItemType: r.FormValue("itemType"),
		}

		files := r.MultipartForm.File["images"]
		if len(files) > maxImageCount {
			WriteJSONError(w, "Too many images (max 10)", http.StatusBadRequest)
			return
		}
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				WriteJSONError(w, "Failed to read uploaded image", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				WriteJSONError(w, "Failed to read uploaded image", http.StatusBadRequest)
				return
			}
			images = append(images, service.ImageUpload{
				Filename: fh.Filename,
				MIMEType: fh.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.customerService.CreateCustomer(r.Context(), &req, images)
	if err != nil {
		writeServiceError(w, h.logger, "create customer", err)
		return
	}

	// The customer object is the response body. Failed photo uploads
	// surface as a warning field, never as a request failure.
	resp := struct {
		*domain.Customer
		Warning string `json:"warning,omitempty"`
	}{Customer: result.Customer}
	if len(result.Warnings) > 0 {
		resp.Warning = "Customer created but image upload failed: " + strings.Join(result.Warnings, "; ")
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListCustomers handles listing customers with optional tailor filtering
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.ListCustomers(r.Context(), r.URL.Query().Get("tailorId"))
	if err != nil {
		writeServiceError(w, h.logger, "list customers", err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer handles retrieval of a customer by ID
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// GetCustomerByPhone handles retrieval of a customer by phone number
func (h *CustomerHandler) GetCustomerByPhone(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.GetCustomerByPhone(r.Context(), r.PathValue("phone"))
	if err != nil {
		writeServiceError(w, h.logger, "get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomer handles partial updates of a customer record
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.customerService.UpdateCustomer(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, h.logger, "update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// AddMeasurements records a measurement sitting for the customer,
// opening a new order in the measuring state.
func (h *CustomerHandler) AddMeasurements(w http.ResponseWriter, r *http.Request) {
	var data domain.MeasurementData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.AddMeasurements(r.Context(), r.PathValue("id"), &data)
	if err != nil {
		writeServiceError(w, h.logger, "add measurements", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Measurements recorded",
		"order":   order,
	})
}
