package mocks

import (
	"context"

	"dataimport/internal/notification"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(n *notification.UserNotify) error {
	args := m.Called(n)
	return args.Error(0)
}
