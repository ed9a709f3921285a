package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockMessageSender is a mock of MessageSender interface
type MockMessageSender struct {
	ctrl     *gomock.Controller
	recorder *MockMessageSenderMockRecorder
}

// MockMessageSenderMockRecorder is the mock recorder for MockMessageSender
type MockMessageSenderMockRecorder struct {
	mock *MockMessageSender
}

// NewMockMessageSender creates a new mock instance
func NewMockMessageSender(ctrl *gomock.Controller) *MockMessageSender {
	mock := &MockMessageSender{ctrl: ctrl}
	mock.recorder = &MockMessageSenderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockMessageSender) EXPECT() *MockMessageSenderMockRecorder {
	return m.recorder
}

// SendWhatsApp mocks base method
func (m *MockMessageSender) SendWhatsApp(ctx context.Context, phone, message string) (string, error) {
	ret := m.ctrl.Call(m, "SendWhatsApp", ctx, phone, message)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SendWhatsApp indicates an expected call of SendWhatsApp
func (mr *MockMessageSenderMockRecorder) SendWhatsApp(ctx, phone, message interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendWhatsApp", reflect.TypeOf((*MockMessageSender)(nil).SendWhatsApp), ctx, phone, message)
}
