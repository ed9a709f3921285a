package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/domain/mocks"
	"github.com/stitchdesk/stitchdesk/internal/repository"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// passAuth stands in for the session middleware on routes under test.
func passAuth(next http.Handler) http.Handler { return next }

type orderHandlerFixture struct {
	mux      *http.ServeMux
	sheets   *mocks.MockSheetsService
	customer *domain.Customer
}

func newOrderHandlerFixture(t *testing.T) *orderHandlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	customers := repository.NewInMemoryCustomerRepository()
	orders := repository.NewInMemoryOrderRepository()
	measurements := repository.NewInMemoryMeasurementRepository()
	sheets := mocks.NewMockSheetsService(ctrl)
	log := logger.NewLoggerWithLevel("disabled")

	customer := &domain.Customer{
		Name:          "Asha Rao",
		Phone:         "9999900000",
		DriveFolderID: "folder-1",
		SheetID:       "sheet-1",
	}
	_, err := customers.UpsertByPhone(context.Background(), customer)
	require.NoError(t, err)

	orderService := service.NewOrderService(orders, customers, measurements, sheets, log)

	mux := http.NewServeMux()
	NewOrderHandler(orderService, log).RegisterRoutes(mux, passAuth)
	return &orderHandlerFixture{mux: mux, sheets: sheets, customer: customer}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("creates an order for a known phone", func(t *testing.T) {
		f := newOrderHandlerFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerPhone":"9999900000","garmentType":"blouse"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var order domain.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
		assert.Regexp(t, regexp.MustCompile(`^ORD-\d+$`), order.OrderNumber)
		assert.Equal(t, f.customer.ID, order.CustomerID)
		assert.Equal(t, domain.OrderStatusNew, order.Status)
	})

	t.Run("unknown phone", func(t *testing.T) {
		f := newOrderHandlerFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerPhone":"0000000000","garmentType":"blouse"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing garment type", func(t *testing.T) {
		f := newOrderHandlerFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerPhone":"9999900000"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	f := newOrderHandlerFixture(t)

	create := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"customerPhone":"9999900000","garmentType":"blouse"}`))
	createRec := httptest.NewRecorder()
	f.mux.ServeHTTP(createRec, create)
	require.Equal(t, http.StatusCreated, createRec.Code)

	t.Run("by customer id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders?customerId="+f.customer.ID, nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var orders []*domain.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
		assert.Len(t, orders, 1)
	})

	t.Run("by phone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders?phone=9999900000", nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var orders []*domain.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
		assert.Len(t, orders, 1)
	})

	t.Run("neither parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "customerId or phone query parameter required", decodeErrorBody(t, rec)["error"])
	})
}

func TestOrderHandler_GetAndUpdate(t *testing.T) {
	f := newOrderHandlerFixture(t)

	create := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"customerPhone":"9999900000","garmentType":"blouse"}`))
	createRec := httptest.NewRecorder()
	f.mux.ServeHTTP(createRec, create)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var created domain.Order
	require.NoError(t, json.NewDecoder(createRec.Body).Decode(&created))

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID, nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var order domain.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
		assert.Equal(t, created.OrderNumber, order.OrderNumber)
	})

	t.Run("get unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/nope", nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("status change is mirrored to the ledger", func(t *testing.T) {
		f.sheets.EXPECT().
			UpdateOrderStatus(gomock.Any(), "sheet-1", created.OrderNumber, domain.OrderStatusStitching, gomock.Nil()).
			Return(nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+created.ID,
			strings.NewReader(`{"status":"stitching"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var order domain.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
		assert.Equal(t, domain.OrderStatusStitching, order.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+created.ID,
			strings.NewReader(`{"status":"teleported"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
