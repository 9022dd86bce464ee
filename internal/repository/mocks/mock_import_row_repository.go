package mocks

import (
	"context"

	"dataimport/internal/model"
	"dataimport/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockImportRowRepository struct {
	mock.Mock
}

func (m *MockImportRowRepository) Create(ctx context.Context, row *model.ImportRow) (*model.ImportRow, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRow), args.Error(1)
}

func (m *MockImportRowRepository) FindByID(ctx context.Context, id string) (*model.ImportRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRow), args.Error(1)
}

func (m *MockImportRowRepository) List(ctx context.Context, f repository.ImportRowFilter) (*repository.PageResult[model.ImportRow], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ImportRow]), args.Error(1)
}

func (m *MockImportRowRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
