package mocks

import (
	"context"

	"dataimport/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRowTransformer struct {
	mock.Mock
}

func (m *MockRowTransformer) HandleField(ctx context.Context, field model.Field, value any, basePath string, row model.Row, importType model.ImportType) (any, bool) {
	args := m.Called(ctx, field, value, basePath, row, importType)
	return args.Get(0), args.Bool(1)
}

func (m *MockRowTransformer) TransformRow(ctx context.Context, fields []model.Field, row model.Row, basePath string, importType model.ImportType) model.TransformedRow {
	args := m.Called(ctx, fields, row, basePath, importType)
	return args.Get(0).(model.TransformedRow)
}
