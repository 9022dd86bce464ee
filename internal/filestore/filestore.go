package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dataimport/internal/storage"
)

var ErrNameRequired = errors.New("file name is required")

// StoreOptions tune how a file is placed in storage.
type StoreOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// FileStorer places files under a directory in object storage and returns the permanent key.
type FileStorer interface {
	StoreAs(ctx context.Context, dir, name string, r io.Reader, opt StoreOptions) (string, error)
}

type fileStorer struct {
	store storage.Storage
}

// New returns a FileStorer backed by the given object storage.
func New(store storage.Storage) FileStorer {
	return &fileStorer{store: store}
}

// StoreAs uploads r to dir/name. An empty name gets a generated UUID name; when dir/name is
// already taken the stored name is prefixed with a UUID so existing objects are never overwritten.
func (s *fileStorer) StoreAs(ctx context.Context, dir, name string, r io.Reader, opt StoreOptions) (string, error) {
	if r == nil {
		return "", errors.New("reader is nil")
	}

	name = SanitizeSegment(name)
	if name == "" {
		return "", ErrNameRequired
	}

	key := Join(dir, name)
	taken, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check existing object: %w", err)
	}
	if taken {
		key = Join(dir, uuid.NewString()+"-"+name)
	}

	ct := opt.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	meta := map[string]string{"original-filename": name}
	for k, v := range opt.Metadata {
		meta[k] = v
	}

	size := opt.Size
	if size == 0 {
		size = -1
	}

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: ct,
		Metadata:    meta,
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return info.Key, nil
}

// GeneratedName returns a UUID-based name keeping ext, for sources without a usable basename.
func GeneratedName(ext string) string {
	return uuid.NewString() + ext
}

// Join builds a slash separated object key, dropping empty segments.
func Join(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segs = append(segs, p)
		}
	}
	return path.Join(segs...)
}

// SanitizeSegment makes s usable as a single key segment: separators and NUL
// become "_", and "." or ".." yield "".
func SanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}
