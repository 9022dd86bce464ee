package mocks

import (
	"context"
	"io"

	"dataimport/internal/filestore"

	"github.com/stretchr/testify/mock"
)

type MockFileStorer struct {
	mock.Mock
}

func (m *MockFileStorer) StoreAs(ctx context.Context, dir, name string, r io.Reader, opt filestore.StoreOptions) (string, error) {
	args := m.Called(ctx, dir, name, r, opt)
	return args.String(0), args.Error(1)
}
