package importer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"go.uber.org/zap"

	"dataimport/internal/fetch"
	"dataimport/internal/filestore"
	"dataimport/internal/logging"
	"dataimport/internal/model"
)

// ErrStoreFailed marks a download that could not be placed in storage.
var ErrStoreFailed = errors.New("store remote file failed")

// MediaSource tells where an accepted media path came from.
type MediaSource string

const (
	// SourceRemote entries were downloaded from a URL and stored during this import.
	SourceRemote MediaSource = "remote"
	// SourceExisting entries were already present in storage.
	SourceExisting MediaSource = "existing"
)

// ResolvedMedia is one accepted media entry.
type ResolvedMedia struct {
	Path   string
	Source MediaSource
}

// Downloader fetches a remote URL into a local temp file.
type Downloader interface {
	Download(ctx context.Context, rawURL string) (*fetch.Download, error)
}

// PathChecker reports whether a storage key already holds an object.
type PathChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// FieldProcessor transforms imported field values before a row is persisted.
// It holds no per-row state and is safe for concurrent use.
type FieldProcessor struct {
	fetcher Downloader
	checker PathChecker
	storer  filestore.FileStorer
	metrics *Metrics
}

type Option func(*FieldProcessor)

// WithMetrics records resolution outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(p *FieldProcessor) {
		p.metrics = m
	}
}

// NewFieldProcessor wires the fetch, existence check and placement collaborators.
func NewFieldProcessor(fetcher Downloader, checker PathChecker, storer filestore.FileStorer, opts ...Option) *FieldProcessor {
	p := &FieldProcessor{fetcher: fetcher, checker: checker, storer: storer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleField transforms value according to field's type.
// The boolean is false when value is empty and the column must be left alone.
//
//   - gallery: []string of resolved paths, or nil
//   - image, file: resolved paths joined with ",", or nil
//   - textarea with wysiwyg: HTML-escaped string
//   - anything else: value unchanged
func (p *FieldProcessor) HandleField(ctx context.Context, field model.Field, value any, basePath string, row model.Row, importType model.ImportType) (any, bool) {
	return p.handle(ctx, field, value, basePath, row, importType, nil)
}

// TransformRow applies HandleField to every described column present in row.
// Columns without a value are copied unchanged; row itself is not modified.
func (p *FieldProcessor) TransformRow(ctx context.Context, fields []model.Field, row model.Row, basePath string, importType model.ImportType) model.TransformedRow {
	res := model.TransformedRow{Row: row.Clone()}
	for _, field := range fields {
		value, ok := row[field.Code]
		if !ok {
			continue
		}
		if out, set := p.handle(ctx, field, value, basePath, row, importType, &res.Fetched); set {
			res.Row[field.Code] = out
		}
	}
	return res
}

func (p *FieldProcessor) handle(ctx context.Context, field model.Field, value any, basePath string, row model.Row, importType model.ImportType, fetched *[]string) (any, bool) {
	if isEmpty(value) {
		return nil, false
	}

	switch field.Type {
	case model.FieldTypeGallery:
		paths := p.mediaPaths(ctx, field.MediaSegment(), value, basePath, row, importType, fetched)
		if paths == nil {
			return nil, true
		}
		return paths, true
	case model.FieldTypeImage, model.FieldTypeFile:
		paths := p.mediaPaths(ctx, field.MediaSegment(), value, basePath, row, importType, fetched)
		if paths == nil {
			return nil, true
		}
		return strings.Join(paths, ","), true
	case model.FieldTypeTextarea:
		if s, ok := value.(string); ok && field.EnableWYSIWYG {
			return EscapeHTML(s), true
		}
		return value, true
	case model.FieldTypeOther:
	}
	return value, true
}

func (p *FieldProcessor) mediaPaths(ctx context.Context, attributeCode string, value any, basePath string, row model.Row, importType model.ImportType, fetched *[]string) []string {
	resolved := p.ResolveMedia(ctx, attributeCode, value, basePath, row, importType)
	if len(resolved) == 0 {
		return nil
	}
	paths := make([]string, len(resolved))
	for i, r := range resolved {
		paths[i] = r.Path
		if fetched != nil && r.Source == SourceRemote {
			*fetched = append(*fetched, r.Path)
		}
	}
	return paths
}

// HandleMediaField resolves every entry of value and returns the accepted paths in input order,
// or nil when none qualifies.
func (p *FieldProcessor) HandleMediaField(ctx context.Context, attributeCode string, value any, basePath string, row model.Row, importType model.ImportType) []string {
	return p.mediaPaths(ctx, attributeCode, value, basePath, row, importType, nil)
}

// ResolveMedia is HandleMediaField keeping each entry's source, so callers can
// remove objects downloaded for a row that later fails to persist.
//
// A URL entry is downloaded into importType/<identifier>/attributeCode; any other
// entry is accepted when basePath+entry exists in storage. Everything else is dropped.
func (p *FieldProcessor) ResolveMedia(ctx context.Context, attributeCode string, value any, basePath string, row model.Row, importType model.ImportType) []ResolvedMedia {
	log := logging.Extract(ctx)

	var out []ResolvedMedia
	for _, entry := range toList(value) {
		trimmed := strings.TrimSpace(toString(entry))
		if trimmed == "" {
			p.metrics.incRejected(reasonEmpty)
			continue
		}

		if fetch.IsRemoteURL(trimmed) {
			dest := MediaDir(importType, row, attributeCode)
			stored, err := p.SaveImageFromURL(ctx, trimmed, dest)
			if err != nil {
				log.Error("failed to import media from url",
					zap.String("url", trimmed),
					zap.String("path", dest),
					zap.Error(err),
				)
				p.metrics.incRejected(reasonFetchFailed)
				continue
			}
			out = append(out, ResolvedMedia{Path: stored, Source: SourceRemote})
			p.metrics.incResolved(SourceRemote)
			continue
		}

		key := basePath + trimmed
		ok, err := p.checker.Exists(ctx, key)
		if err != nil {
			log.Warn("media existence check failed", zap.String("path", key), zap.Error(err))
			p.metrics.incRejected(reasonCheckFailed)
			continue
		}
		if !ok {
			p.metrics.incRejected(reasonNotFound)
			continue
		}
		out = append(out, ResolvedMedia{Path: key, Source: SourceExisting})
		p.metrics.incResolved(SourceExisting)
	}

	return out
}

// SaveImageFromURL downloads rawURL and stores it under destDir, named after the URL's basename.
// The temp file is removed whatever the outcome.
func (p *FieldProcessor) SaveImageFromURL(ctx context.Context, rawURL, destDir string) (string, error) {
	d, err := p.fetcher.Download(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer d.Remove()

	f, err := d.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", fetch.ErrTempWrite, err)
	}
	defer f.Close()

	name := d.Name
	if name == "" {
		name = filestore.GeneratedName(extensionFor(d.ContentType))
	}

	stored, err := p.storer.StoreAs(ctx, destDir, name, f, filestore.StoreOptions{
		Size:        d.Size,
		ContentType: d.ContentType,
		Metadata:    map[string]string{"source-url": rawURL},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s to %s: %w", ErrStoreFailed, rawURL, destDir, err)
	}
	return stored, nil
}

// MediaDir is the storage directory downloaded media of a row is placed in.
// Row-supplied segments are sanitized so they cannot climb out of the import type prefix.
func MediaDir(importType model.ImportType, row model.Row, attributeCode string) string {
	return filestore.Join(
		string(importType),
		filestore.SanitizeSegment(row.Identifier(importType)),
		filestore.SanitizeSegment(attributeCode),
	)
}

func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	exts, err := mime.ExtensionsByType(mt)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
