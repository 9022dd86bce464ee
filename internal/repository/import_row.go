package repository

import (
	"context"

	"dataimport/internal/model"
)

// ImportRowFilter narrows List results. Zero values match everything.
type ImportRowFilter struct {
	ImportType model.ImportType
	PageQuery
}

// ImportRowRepository persists transformed import rows. No business logic here.
type ImportRowRepository interface {
	// Create inserts a transformed row and returns the stored record.
	Create(ctx context.Context, row *model.ImportRow) (*model.ImportRow, error)

	// FindByID returns a row by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.ImportRow, error)

	// List returns a page of rows, newest first, and the total count for the filter.
	List(ctx context.Context, f ImportRowFilter) (*PageResult[model.ImportRow], error)

	// Delete removes a row by ID. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}
