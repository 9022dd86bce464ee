package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dataimport/internal/filestore"
	"dataimport/internal/logging"
	"dataimport/internal/model"
	"dataimport/internal/notification"
	"dataimport/internal/reader"
	"dataimport/internal/repository"
	"dataimport/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("import row not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrInvalidImportType = errors.New("import type must be a non-empty slug")
	ErrKeyRequired       = errors.New("media key is required")
)

const (
	archiveDir    = "imports"
	presignExpiry = 15 * time.Minute
)

// RowTransformer is the field processing the service runs on every row.
type RowTransformer interface {
	HandleField(ctx context.Context, field model.Field, value any, basePath string, row model.Row, importType model.ImportType) (any, bool)
	TransformRow(ctx context.Context, fields []model.Field, row model.Row, basePath string, importType model.ImportType) model.TransformedRow
}

// ImportRequest describes one import run.
type ImportRequest struct {
	ImportType model.ImportType
	Fields     []model.Field
	Rows       []model.Row
	BasePath   string
	// Notify lists recipients of the completion mail; empty disables it.
	Notify []string
}

// RowError reports a row that could not be imported. Line is 1-indexed.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Summary is the outcome of an import run. It is also the data of the
// import_completed mail template.
type Summary struct {
	ImportType string            `json:"import_type"`
	Source     string            `json:"source"`
	Archive    string            `json:"archive,omitempty"`
	Total      int               `json:"total"`
	Imported   int               `json:"imported"`
	Failed     int               `json:"failed"`
	Errors     []RowError        `json:"errors"`
	Rows       []model.ImportRow `json:"rows,omitempty"`
}

// failure is the data of the import_failed mail template.
type failure struct {
	ImportType string
	Source     string
	Reason     string
}

// ImportRowListResult is the service-level DTO for paginated import rows.
type ImportRowListResult struct {
	Items []model.ImportRow `json:"data"`
	Total int               `json:"total"`
}

// TransformRequest is a single-field dry run.
type TransformRequest struct {
	Field      model.Field      `json:"field"`
	Value      any              `json:"value"`
	BasePath   string           `json:"base_path"`
	Row        model.Row        `json:"row"`
	ImportType model.ImportType `json:"import_type"`
}

// TransformResult is the outcome of a dry run. Set is false when the column would be left alone.
type TransformResult struct {
	Value any  `json:"value"`
	Set   bool `json:"set"`
}

// ImportService defines the import use cases.
type ImportService interface {
	// ImportRows transforms and persists every row. Objects downloaded for a row
	// are removed again when that row fails to persist.
	ImportRows(ctx context.Context, req ImportRequest) (*Summary, error)

	// ImportFile archives a CSV or XLSX upload, parses it and imports its rows.
	ImportFile(ctx context.Context, fileName string, r io.Reader, req ImportRequest) (*Summary, error)

	// Transform runs HandleField on a single value without persisting anything.
	Transform(ctx context.Context, req TransformRequest) (*TransformResult, error)

	List(ctx context.Context, importType model.ImportType, limit, offset int) (*ImportRowListResult, error)
	Get(ctx context.Context, id string) (*model.ImportRow, error)
	Delete(ctx context.Context, id string) error

	// MediaURL returns a short-lived download URL for a stored media key.
	MediaURL(ctx context.Context, key string) (string, error)
}

type importService struct {
	transformer     RowTransformer
	store           storage.Storage
	repo            repository.ImportRowRepository
	notifier        notification.Dispatcher
	defaultBasePath string
	failureNotify   []string
	now             func() time.Time
}

type Option func(*importService)

// WithDefaultBasePath sets the base path used when a request carries none.
func WithDefaultBasePath(p string) Option {
	return func(s *importService) {
		s.defaultBasePath = p
	}
}

// WithFailureRecipients adds recipients to every import_failed notification.
func WithFailureRecipients(to []string) Option {
	return func(s *importService) {
		s.failureNotify = to
	}
}

// NewImportService constructs a new ImportService. notifier may be nil.
func NewImportService(transformer RowTransformer, store storage.Storage, repo repository.ImportRowRepository, notifier notification.Dispatcher, opts ...Option) ImportService {
	s := &importService{
		transformer: transformer,
		store:       store,
		repo:        repo,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *importService) basePath(req ImportRequest) string {
	if req.BasePath != "" {
		return req.BasePath
	}
	return s.defaultBasePath
}

func validImportType(t model.ImportType) bool {
	s := string(t)
	return s != "" && !strings.ContainsAny(s, "/\\ ") && s != "." && s != ".."
}

func (s *importService) ImportRows(ctx context.Context, req ImportRequest) (*Summary, error) {
	if !validImportType(req.ImportType) {
		return nil, ErrInvalidImportType
	}
	records := make([]reader.Record, len(req.Rows))
	for i, row := range req.Rows {
		records[i] = reader.Record{Line: i + 1, Row: row}
	}
	sum := s.importRecords(ctx, req, records)
	sum.Source = "api"
	s.notifyCompleted(ctx, req, sum)
	return sum, nil
}

func (s *importService) ImportFile(ctx context.Context, fileName string, r io.Reader, req ImportRequest) (*Summary, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !validImportType(req.ImportType) {
		return nil, ErrInvalidImportType
	}
	log := logging.Extract(ctx).With(zap.String("source", fileName), zap.String("import_type", string(req.ImportType)))

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	records, err := reader.Parse(fileName, bytes.NewReader(data))
	if err != nil {
		log.Warn("import file rejected", zap.Error(err))
		s.notifyFailed(ctx, req, fileName, err)
		return nil, err
	}

	key := filestore.Join(archiveDir, string(req.ImportType), uuid.New().String()+strings.ToLower(filepath.Ext(fileName)))
	obj, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentTypeFor(fileName),
		Metadata:    map[string]string{"original-filename": fileName},
	})
	if err != nil {
		err = fmt.Errorf("upload to storage: %w", err)
		s.notifyFailed(ctx, req, fileName, err)
		return nil, err
	}

	req.Fields = fileFieldCodes(req.Fields)
	splitGalleryCells(req.Fields, records)
	sum := s.importRecords(ctx, req, records)
	sum.Source = fileName
	sum.Archive = obj.Key
	log.Info("import file processed",
		zap.Int("total", sum.Total),
		zap.Int("imported", sum.Imported),
		zap.Int("failed", sum.Failed),
	)
	s.notifyCompleted(ctx, req, sum)
	return sum, nil
}

func contentTypeFor(fileName string) string {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// fileFieldCodes returns a copy of fields keyed the way file headers are.
func fileFieldCodes(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	for i, f := range fields {
		f.Code = reader.NormalizeHeader(f.Code)
		out[i] = f
	}
	return out
}

// splitGalleryCells turns comma separated gallery cells of flat files into lists.
func splitGalleryCells(fields []model.Field, records []reader.Record) {
	for _, f := range fields {
		if f.Type != model.FieldTypeGallery {
			continue
		}
		for _, rec := range records {
			cell, ok := rec.Row[f.Code].(string)
			if !ok || !strings.Contains(cell, ",") {
				continue
			}
			parts := strings.Split(cell, ",")
			list := make([]any, 0, len(parts))
			for _, p := range parts {
				list = append(list, p)
			}
			rec.Row[f.Code] = list
		}
	}
}

func (s *importService) importRecords(ctx context.Context, req ImportRequest, records []reader.Record) *Summary {
	sum := &Summary{
		ImportType: string(req.ImportType),
		Total:      len(records),
		Errors:     make([]RowError, 0),
	}
	for _, rec := range records {
		stored, err := s.importRow(ctx, req, rec.Row)
		if err != nil {
			sum.Failed++
			sum.Errors = append(sum.Errors, RowError{Line: rec.Line, Message: err.Error()})
			continue
		}
		sum.Imported++
		sum.Rows = append(sum.Rows, *stored)
	}
	return sum
}

func (s *importService) importRow(ctx context.Context, req ImportRequest, row model.Row) (*model.ImportRow, error) {
	res := s.transformer.TransformRow(ctx, req.Fields, row, s.basePath(req), req.ImportType)

	stored, err := s.repo.Create(ctx, &model.ImportRow{
		ID:         uuid.New().String(),
		ImportType: req.ImportType,
		Identifier: row.Identifier(req.ImportType),
		Data:       res.Row,
		CreatedAt:  s.now(),
	})
	if err != nil {
		s.rollback(ctx, res.Fetched)
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// rollback removes objects downloaded for a row that was not persisted.
func (s *importService) rollback(ctx context.Context, keys []string) {
	log := logging.Extract(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Error("rollback delete failed", zap.String("path", key), zap.Error(err))
		}
	}
}

func (s *importService) notifyCompleted(ctx context.Context, req ImportRequest, sum *Summary) {
	subject := fmt.Sprintf("%s import completed: %d of %d rows imported", req.ImportType, sum.Imported, sum.Total)
	s.dispatch(ctx, notification.NewUserNotify(req.Notify, subject, notification.TemplateImportCompleted, sum))
}

func (s *importService) notifyFailed(ctx context.Context, req ImportRequest, source string, cause error) {
	subject := fmt.Sprintf("%s import failed", req.ImportType)
	to := append(append([]string(nil), req.Notify...), s.failureNotify...)
	s.dispatch(ctx, notification.NewUserNotify(to, subject, notification.TemplateImportFailed, failure{
		ImportType: string(req.ImportType),
		Source:     source,
		Reason:     cause.Error(),
	}))
}

func (s *importService) dispatch(ctx context.Context, n *notification.UserNotify) {
	if s.notifier == nil || len(n.Recipients) == 0 {
		return
	}
	if err := s.notifier.Dispatch(n); err != nil {
		logging.Extract(ctx).Warn("failed to queue notification",
			zap.String("template", n.Template),
			zap.Error(err),
		)
	}
}

func (s *importService) Transform(ctx context.Context, req TransformRequest) (*TransformResult, error) {
	importType := req.ImportType
	if importType == "" {
		importType = model.ImportTypeProduct
	}
	if !validImportType(importType) {
		return nil, ErrInvalidImportType
	}
	row := req.Row
	if row == nil {
		row = model.Row{}
	}
	basePath := req.BasePath
	if basePath == "" {
		basePath = s.defaultBasePath
	}
	value, set := s.transformer.HandleField(ctx, req.Field, req.Value, basePath, row, importType)
	return &TransformResult{Value: value, Set: set}, nil
}

// List returns paginated import rows without exposing repository types.
func (s *importService) List(ctx context.Context, importType model.ImportType, limit, offset int) (*ImportRowListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.ImportRowFilter{
		ImportType: importType,
		PageQuery:  repository.PageQuery{Limit: limit, Offset: offset},
	})
	if err != nil {
		return nil, err
	}
	return &ImportRowListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *importService) Get(ctx context.Context, id string) (*model.ImportRow, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

// Delete removes the stored row. Media it references may be shared with other rows and is kept.
func (s *importService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *importService) MediaURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrKeyRequired
	}
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check media: %w", err)
	}
	if !ok {
		return "", storage.ErrNotExist
	}
	return s.store.PresignGet(ctx, key, presignExpiry)
}
