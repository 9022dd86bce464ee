package mocks

import (
	"context"
	"io"

	"dataimport/internal/model"
	"dataimport/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportRows(ctx context.Context, req service.ImportRequest) (*service.Summary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Summary), args.Error(1)
}

func (m *MockImportService) ImportFile(ctx context.Context, fileName string, r io.Reader, req service.ImportRequest) (*service.Summary, error) {
	args := m.Called(ctx, fileName, r, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Summary), args.Error(1)
}

func (m *MockImportService) Transform(ctx context.Context, req service.TransformRequest) (*service.TransformResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransformResult), args.Error(1)
}

func (m *MockImportService) List(ctx context.Context, importType model.ImportType, limit, offset int) (*service.ImportRowListResult, error) {
	args := m.Called(ctx, importType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportRowListResult), args.Error(1)
}

func (m *MockImportService) Get(ctx context.Context, id string) (*model.ImportRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRow), args.Error(1)
}

func (m *MockImportService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockImportService) MediaURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
