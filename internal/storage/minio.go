package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dataimport/internal/config"
)

const bucketCheckTimeout = 10 * time.Second

var (
	ErrEndpointRequired    = errors.New("minio endpoint is required")
	ErrCredentialsRequired = errors.New("minio credentials are required")
	ErrBucketRequired      = errors.New("minio bucket is required")
)

// MinIOStore keeps media and import archives in a single S3-compatible bucket.
// It is safe for concurrent use.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

var _ Storage = (*MinIOStore)(nil)

func validateMinIO(cfg config.MinIOConfig) error {
	switch {
	case cfg.Endpoint == "":
		return ErrEndpointRequired
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return ErrCredentialsRequired
	case cfg.Bucket == "":
		return ErrBucketRequired
	}
	return nil
}

// NewMinIO connects to the configured endpoint and creates the bucket when it is missing.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIOStore, error) {
	if err := validateMinIO(cfg); err != nil {
		return nil, err
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	found, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !found {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinIOStore{client: cli, bucket: cfg.Bucket}, nil
}

// normalizeKey strips the leading slash import paths often carry.
func normalizeKey(key string) string {
	return strings.TrimLeft(key, "/")
}

func (m *MinIOStore) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	key = normalizeKey(key)
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:         key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: opt.ContentType,
	}, nil
}

// Exists stats the object. NoSuchKey means false; any other failure is returned.
func (m *MinIOStore) Exists(ctx context.Context, key string) (bool, error) {
	key = normalizeKey(key)
	if key == "" {
		return false, nil
	}
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *MinIOStore) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, normalizeKey(key), minio.RemoveObjectOptions{})
}

// PresignGet signs a GET that renders the object inline under its own basename.
func (m *MinIOStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	key = normalizeKey(key)
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, presignParams(key))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func presignParams(key string) url.Values {
	params := url.Values{}
	if name := path.Base(key); name != "." && name != "/" {
		params.Set("response-content-disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	}
	return params
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
