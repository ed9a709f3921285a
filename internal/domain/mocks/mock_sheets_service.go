package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

// MockSheetsService is a mock of SheetsService interface
type MockSheetsService struct {
	ctrl     *gomock.Controller
	recorder *MockSheetsServiceMockRecorder
}

// MockSheetsServiceMockRecorder is the mock recorder for MockSheetsService
type MockSheetsServiceMockRecorder struct {
	mock *MockSheetsService
}

// NewMockSheetsService creates a new mock instance
func NewMockSheetsService(ctrl *gomock.Controller) *MockSheetsService {
	mock := &MockSheetsService{ctrl: ctrl}
	mock.recorder = &MockSheetsServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSheetsService) EXPECT() *MockSheetsServiceMockRecorder {
	return m.recorder
}

// EnsureMeasurementSheet mocks base method
func (m *MockSheetsService) EnsureMeasurementSheet(ctx context.Context, phone, name, folderID string) (string, error) {
	ret := m.ctrl.Call(m, "EnsureMeasurementSheet", ctx, phone, name, folderID)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// EnsureMeasurementSheet indicates an expected call of EnsureMeasurementSheet
func (mr *MockSheetsServiceMockRecorder) EnsureMeasurementSheet(ctx, phone, name, folderID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnsureMeasurementSheet", reflect.TypeOf((*MockSheetsService)(nil).EnsureMeasurementSheet), ctx, phone, name, folderID)
}

// AppendMeasurementRow mocks base method
func (m *MockSheetsService) AppendMeasurementRow(ctx context.Context, sheetID, orderNumber string, data *domain.MeasurementData) (int, error) {
	ret := m.ctrl.Call(m, "AppendMeasurementRow", ctx, sheetID, orderNumber, data)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AppendMeasurementRow indicates an expected call of AppendMeasurementRow
func (mr *MockSheetsServiceMockRecorder) AppendMeasurementRow(ctx, sheetID, orderNumber, data interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AppendMeasurementRow", reflect.TypeOf((*MockSheetsService)(nil).AppendMeasurementRow), ctx, sheetID, orderNumber, data)
}

// UpdateOrderStatus mocks base method
func (m *MockSheetsService) UpdateOrderStatus(ctx context.Context, sheetID, orderNumber string, status domain.OrderStatus, deliveryDate *time.Time) error {
	ret := m.ctrl.Call(m, "UpdateOrderStatus", ctx, sheetID, orderNumber, status, deliveryDate)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateOrderStatus indicates an expected call of UpdateOrderStatus
func (mr *MockSheetsServiceMockRecorder) UpdateOrderStatus(ctx, sheetID, orderNumber, status, deliveryDate interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateOrderStatus", reflect.TypeOf((*MockSheetsService)(nil).UpdateOrderStatus), ctx, sheetID, orderNumber, status, deliveryDate)
}

// ListMeasurementRows mocks base method
func (m *MockSheetsService) ListMeasurementRows(ctx context.Context, sheetID string) ([]*domain.SheetMeasurementRow, error) {
	ret := m.ctrl.Call(m, "ListMeasurementRows", ctx, sheetID)
	ret0, _ := ret[0].([]*domain.SheetMeasurementRow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListMeasurementRows indicates an expected call of ListMeasurementRows
func (mr *MockSheetsServiceMockRecorder) ListMeasurementRows(ctx, sheetID interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListMeasurementRows", reflect.TypeOf((*MockSheetsService)(nil).ListMeasurementRows), ctx, sheetID)
}
