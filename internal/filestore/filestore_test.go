package filestore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dataimport/internal/storage"
	storeMocks "dataimport/internal/storage/mocks"
)

func TestFileStorer_StoreAs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		dir        string
		file       string
		opt        StoreOptions
		setupMocks func(m *storeMocks.MockStorage)
		want       func(t *testing.T, key string)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "stores under dir/name",
			dir:  "product/S1/image",
			file: "a.png",
			opt:  StoreOptions{Size: 9},
			setupMocks: func(m *storeMocks.MockStorage) {
				m.On("Exists", ctx, "product/S1/image/a.png").Return(false, nil)
				m.On("Put", ctx, "product/S1/image/a.png", mock.Anything, storage.PutObjectOptions{
					Size:        9,
					ContentType: "image/png",
					Metadata:    map[string]string{"original-filename": "a.png"},
				}).Return(storage.ObjectInfo{Key: "product/S1/image/a.png"}, nil)
			},
			want: func(t *testing.T, key string) {
				assert.Equal(t, "product/S1/image/a.png", key)
			},
		},
		{
			name: "collision gets uuid prefix",
			dir:  "product/image",
			file: "a.png",
			setupMocks: func(m *storeMocks.MockStorage) {
				m.On("Exists", ctx, "product/image/a.png").Return(true, nil)
				m.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "product/image/") && strings.HasSuffix(key, "-a.png") && key != "product/image/a.png"
				}), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Size == -1
				})).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key}
				}, nil)
			},
			want: func(t *testing.T, key string) {
				assert.True(t, strings.HasSuffix(key, "-a.png"))
			},
		},
		{
			name:       "empty name",
			dir:        "product/image",
			file:       "  ",
			setupMocks: func(m *storeMocks.MockStorage) {},
			wantErr:    ErrNameRequired,
		},
		{
			name: "exists check fails",
			dir:  "product/image",
			file: "a.png",
			setupMocks: func(m *storeMocks.MockStorage) {
				m.On("Exists", ctx, "product/image/a.png").Return(false, errors.New("timeout"))
			},
			wantErrMsg: "check existing object: timeout",
		},
		{
			name: "put fails",
			dir:  "product/image",
			file: "a.bin",
			opt:  StoreOptions{ContentType: "application/x-custom", Metadata: map[string]string{"source-url": "http://x/a.bin"}},
			setupMocks: func(m *storeMocks.MockStorage) {
				m.On("Exists", ctx, "product/image/a.bin").Return(false, nil)
				m.On("Put", ctx, "product/image/a.bin", mock.Anything, storage.PutObjectOptions{
					Size:        -1,
					ContentType: "application/x-custom",
					Metadata:    map[string]string{"original-filename": "a.bin", "source-url": "http://x/a.bin"},
				}).Return(storage.ObjectInfo{}, errors.New("denied"))
			},
			wantErrMsg: "upload to storage: denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(storeMocks.MockStorage)
			tt.setupMocks(m)

			key, err := New(m).StoreAs(ctx, tt.dir, tt.file, strings.NewReader("png-bytes"), tt.opt)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
				tt.want(t, key)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "product/S1/image/a.png", Join("product", "S1", "image", "a.png"))
	assert.Equal(t, "product/image", Join("/product/", "", "image"))
	assert.Equal(t, "", Join("", ""))
}

func TestSanitizeSegment(t *testing.T) {
	assert.Equal(t, "a_b.png", SanitizeSegment("a/b.png"))
	assert.Equal(t, "", SanitizeSegment(".."))
	assert.Equal(t, "x.png", SanitizeSegment(" x.png "))
	assert.Equal(t, ".._.._etc", SanitizeSegment("../../etc"))
	assert.Equal(t, "a_b", SanitizeSegment(`a\b`))
	assert.Equal(t, "", SanitizeSegment("."))
}

func TestGeneratedName(t *testing.T) {
	n := GeneratedName(".jpg")
	assert.True(t, strings.HasSuffix(n, ".jpg"))
	assert.Len(t, n, 36+4)
}
