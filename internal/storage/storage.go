// Package storage holds the object storage port used for imported media and archived import files.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned when a key has no object behind it.
var ErrNotExist = errors.New("object does not exist")

// PutObjectOptions describe an upload. Size is -1 when the length is unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// Storage is the bucket-scoped object store. Keys are bucket-relative; a leading slash is ignored.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Exists reports whether an object is stored under key. A missing object is not an error.
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that needs no credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
