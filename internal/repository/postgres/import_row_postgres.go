package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dataimport/internal/model"
	"dataimport/internal/repository"
)

// ImportRowPostgres is a PostgreSQL implementation of repository.ImportRowRepository.
// Row data is stored as JSONB.
type ImportRowPostgres struct {
	db *sql.DB
}

// NewImportRowPostgres creates a new ImportRowPostgres repository.
func NewImportRowPostgres(db *sql.DB) *ImportRowPostgres {
	return &ImportRowPostgres{db: db}
}

var _ repository.ImportRowRepository = (*ImportRowPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportRow(s rowScanner) (*model.ImportRow, error) {
	var (
		out  model.ImportRow
		typ  string
		data []byte
	)
	if err := s.Scan(&out.ID, &typ, &out.Identifier, &data, &out.CreatedAt); err != nil {
		return nil, err
	}
	out.ImportType = model.ImportType(typ)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.Data); err != nil {
			return nil, fmt.Errorf("decode row data: %w", err)
		}
	}
	return &out, nil
}

// Create inserts a new import row and returns the stored record.
func (r *ImportRowPostgres) Create(ctx context.Context, row *model.ImportRow) (*model.ImportRow, error) {
	const q = `
		INSERT INTO import_rows (id, import_type, identifier, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, import_type, identifier, data, created_at
	`
	data, err := json.Marshal(row.Data)
	if err != nil {
		return nil, fmt.Errorf("encode row data: %w", err)
	}
	return scanImportRow(r.db.QueryRowContext(ctx, q,
		row.ID,
		string(row.ImportType),
		row.Identifier,
		data,
		row.CreatedAt,
	))
}

// FindByID fetches a single import row by its ID.
func (r *ImportRowPostgres) FindByID(ctx context.Context, id string) (*model.ImportRow, error) {
	const q = `
		SELECT id, import_type, identifier, data, created_at
		FROM import_rows
		WHERE id = $1
	`
	row, err := scanImportRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

// List returns import rows using LIMIT/OFFSET pagination and a total count.
// An empty ImportType matches every type.
func (r *ImportRowPostgres) List(ctx context.Context, f repository.ImportRowFilter) (*repository.PageResult[model.ImportRow], error) {
	const qCount = `SELECT COUNT(*) FROM import_rows WHERE ($1 = '' OR import_type = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, string(f.ImportType)).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, import_type, identifier, data, created_at
		FROM import_rows
		WHERE ($1 = '' OR import_type = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, string(f.ImportType), f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ImportRow, 0)
	for rows.Next() {
		row, err := scanImportRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ImportRow]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an import row by ID. It does not return an error if the row does not exist.
func (r *ImportRowPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM import_rows WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
