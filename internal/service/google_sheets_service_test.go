package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/domain/mocks"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// fakeSheetsAPI serves just enough of the values API to back the
// adapter: append grows the ledger, get returns it, update records the
// patched range and cells.
type fakeSheetsAPI struct {
	mu            sync.Mutex
	rows          [][]interface{}
	patchedRange  string
	patchedValues [][]interface{}
}

func (f *fakeSheetsAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			var vr sheets.ValueRange
			_ = json.NewDecoder(r.Body).Decode(&vr)
			f.rows = append(f.rows, vr.Values...)
			rowIndex := len(f.rows) + 1 // header occupies row 1
			_ = json.NewEncoder(w).Encode(&sheets.AppendValuesResponse{
				Updates: &sheets.UpdateValuesResponse{
					UpdatedRange: fmt.Sprintf("Orders!A%d:M%d", rowIndex, rowIndex),
				},
			})
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(&sheets.ValueRange{Values: f.rows})
		case r.Method == http.MethodPut:
			i := strings.LastIndex(r.URL.Path, "/values/")
			f.patchedRange = r.URL.Path[i+len("/values/"):]
			var vr sheets.ValueRange
			_ = json.NewDecoder(r.Body).Decode(&vr)
			f.patchedValues = vr.Values
			_ = json.NewEncoder(w).Encode(&sheets.UpdateValuesResponse{})
		default:
			http.NotFound(w, r)
		}
	}
}

func newSheetsServiceFixture(t *testing.T) (*GoogleSheetsService, *fakeSheetsAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tokens := mocks.NewMockTokenProvider(ctrl)
	tokens.EXPECT().
		GetAccessToken(gomock.Any(), domain.GoogleService).
		Return("ya29.test", nil).
		AnyTimes()

	fake := &fakeSheetsAPI{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	svc := NewGoogleSheetsService(tokens, nil, logger.NewLoggerWithLevel("disabled"), 5*time.Second)
	svc.extraOpts = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}
	return svc, fake
}

func TestGoogleSheetsService_LedgerRoundTrip(t *testing.T) {
	svc, _ := newSheetsServiceFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	row, err := svc.AppendMeasurementRow(ctx, "sheet-1", "ORD-100", &domain.MeasurementData{
		GarmentType:  "blouse",
		Chest:        "36",
		Waist:        "30",
		DeliveryDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	rows, err := svc.ListMeasurementRows(ctx, "sheet-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].RowIndex)
	assert.Equal(t, "ORD-100", rows[0].OrderNumber)
	assert.Equal(t, "blouse", rows[0].GarmentType)
	assert.Equal(t, "36", rows[0].Chest)
	assert.Equal(t, "30", rows[0].Waist)
	assert.Equal(t, string(domain.OrderStatusNew), rows[0].Status)
	assert.Equal(t, "2026-09-15", rows[0].DeliveryDate)
}

func TestGoogleSheetsService_UpdateOrderStatus(t *testing.T) {
	seedTwoOrders := func(t *testing.T, svc *GoogleSheetsService) {
		t.Helper()
		ctx := context.Background()
		_, err := svc.AppendMeasurementRow(ctx, "sheet-1", "ORD-100", &domain.MeasurementData{GarmentType: "blouse"})
		require.NoError(t, err)
		_, err = svc.AppendMeasurementRow(ctx, "sheet-1", "ORD-200", &domain.MeasurementData{GarmentType: "kurta"})
		require.NoError(t, err)
	}

	t.Run("patches only the matched row's status cells", func(t *testing.T) {
		svc, fake := newSheetsServiceFixture(t)
		seedTwoOrders(t, svc)

		err := svc.UpdateOrderStatus(context.Background(), "sheet-1", "ORD-200", domain.OrderStatusStitching, nil)
		require.NoError(t, err)

		assert.Equal(t, "Orders!L3:M3", fake.patchedRange)
		assert.Equal(t, [][]interface{}{{string(domain.OrderStatusStitching)}}, fake.patchedValues)
	})

	t.Run("includes the delivery date when set", func(t *testing.T) {
		svc, fake := newSheetsServiceFixture(t)
		seedTwoOrders(t, svc)

		due := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		err := svc.UpdateOrderStatus(context.Background(), "sheet-1", "ORD-100", domain.OrderStatusReady, &due)
		require.NoError(t, err)

		assert.Equal(t, "Orders!L2:M2", fake.patchedRange)
		assert.Equal(t, [][]interface{}{{string(domain.OrderStatusReady), "2026-09-20"}}, fake.patchedValues)
	})

	t.Run("unknown order number", func(t *testing.T) {
		svc, fake := newSheetsServiceFixture(t)
		seedTwoOrders(t, svc)

		err := svc.UpdateOrderStatus(context.Background(), "sheet-1", "ORD-999", domain.OrderStatusReady, nil)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Empty(t, fake.patchedRange)
	})
}

func TestParseAppendedRow(t *testing.T) {
	t.Run("parses row index from updated range", func(t *testing.T) {
		resp := &sheets.AppendValuesResponse{
			Updates: &sheets.UpdateValuesResponse{
				UpdatedRange: "Orders!A7:M7",
			},
		}
		assert.Equal(t, 7, parseAppendedRow(resp))
	})

	t.Run("first data row", func(t *testing.T) {
		resp := &sheets.AppendValuesResponse{
			Updates: &sheets.UpdateValuesResponse{
				UpdatedRange: "Orders!A2:M2",
			},
		}
		assert.Equal(t, 2, parseAppendedRow(resp))
	})

	t.Run("nil response", func(t *testing.T) {
		assert.Equal(t, 0, parseAppendedRow(nil))
	})

	t.Run("nil updates", func(t *testing.T) {
		assert.Equal(t, 0, parseAppendedRow(&sheets.AppendValuesResponse{}))
	})

	t.Run("unexpected range format", func(t *testing.T) {
		resp := &sheets.AppendValuesResponse{
			Updates: &sheets.UpdateValuesResponse{
				UpdatedRange: "Sheet1!B3:C3",
			},
		}
		assert.Equal(t, 0, parseAppendedRow(resp))
	})
}

func TestSheetRanges(t *testing.T) {
	// Ranges must all target the Orders tab so status patches and
	// history reads see the rows the append wrote.
	assert.Equal(t, "Orders!A2:M", sheetDataRange)
	assert.Equal(t, "Orders!A:M", sheetAppendWide)
	assert.Equal(t, "Orders!A1:M1", sheetHeaderRow)
}
