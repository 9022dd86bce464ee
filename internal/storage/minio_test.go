package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"dataimport/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want error
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, ErrEndpointRequired},
		{"missing secret", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", Bucket: "b"}, ErrCredentialsRequired},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, ErrBucketRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "product/a.png", normalizeKey("/product/a.png"))
	assert.Equal(t, "product/a.png", normalizeKey("product/a.png"))
	assert.Equal(t, "", normalizeKey("/"))
}

func TestPresignParams(t *testing.T) {
	assert.Equal(t, "inline; filename=a.png", presignParams("product/S1/image/a.png").Get("response-content-disposition"))
	assert.Equal(t, `inline; filename="my photo.jpg"`, presignParams("product/my photo.jpg").Get("response-content-disposition"))
	assert.Empty(t, presignParams(""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{StatusCode: 404}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}))
	assert.False(t, isNotFound(errors.New("dial tcp: refused")))
}
