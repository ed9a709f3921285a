package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockDriveService is a mock of DriveService interface
type MockDriveService struct {
	ctrl     *gomock.Controller
	recorder *MockDriveServiceMockRecorder
}

// MockDriveServiceMockRecorder is the mock recorder for MockDriveService
type MockDriveServiceMockRecorder struct {
	mock *MockDriveService
}

// NewMockDriveService creates a new mock instance
func NewMockDriveService(ctrl *gomock.Controller) *MockDriveService {
	mock := &MockDriveService{ctrl: ctrl}
	mock.recorder = &MockDriveServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockDriveService) EXPECT() *MockDriveServiceMockRecorder {
	return m.recorder
}

// EnsureCustomerFolder mocks base method
func (m *MockDriveService) EnsureCustomerFolder(ctx context.Context, phone, name string) (string, bool, error) {
	ret := m.ctrl.Call(m, "EnsureCustomerFolder", ctx, phone, name)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// EnsureCustomerFolder indicates an expected call of EnsureCustomerFolder
func (mr *MockDriveServiceMockRecorder) EnsureCustomerFolder(ctx, phone, name interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnsureCustomerFolder", reflect.TypeOf((*MockDriveService)(nil).EnsureCustomerFolder), ctx, phone, name)
}

// UploadImage mocks base method
func (m *MockDriveService) UploadImage(ctx context.Context, folderID, fileName, mimeType string, data []byte) (string, error) {
	ret := m.ctrl.Call(m, "UploadImage", ctx, folderID, fileName, mimeType, data)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UploadImage indicates an expected call of UploadImage
func (mr *MockDriveServiceMockRecorder) UploadImage(ctx, folderID, fileName, mimeType, data interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UploadImage", reflect.TypeOf((*MockDriveService)(nil).UploadImage), ctx, folderID, fileName, mimeType, data)
}

// RenameFolder mocks base method
func (m *MockDriveService) RenameFolder(ctx context.Context, folderID, newName string) error {
	ret := m.ctrl.Call(m, "RenameFolder", ctx, folderID, newName)
	ret0, _ := ret[0].(error)
	return ret0
}

// RenameFolder indicates an expected call of RenameFolder
func (mr *MockDriveServiceMockRecorder) RenameFolder(ctx, folderID, newName interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RenameFolder", reflect.TypeOf((*MockDriveService)(nil).RenameFolder), ctx, folderID, newName)
}
