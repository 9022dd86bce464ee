package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dataimport/internal/config"
	"dataimport/internal/model"
	"dataimport/internal/service"
	serviceMocks "dataimport/internal/service/mocks"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func fakeWiring(svc service.ImportService, closed *bool) wiring {
	return func(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (service.ImportService, func(context.Context) error, error) {
		return svc, func(context.Context) error {
			*closed = true
			return nil
		}, nil
	}
}

func TestFileCmd(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	csvPath := writeFile(t, "products.csv", "sku,image\nS1,a.png\n")
	fieldsPath := writeFile(t, "fields.json", `[{"code":"image","type":"image"}]`)

	svc := new(serviceMocks.MockImportService)
	svc.On("ImportFile", mock.Anything, "products.csv", mock.Anything, mock.MatchedBy(func(req service.ImportRequest) bool {
		return req.ImportType == model.ImportTypeCategory &&
			len(req.Fields) == 1 && req.Fields[0].Type == model.FieldTypeImage &&
			req.BasePath == "media/" &&
			assert.ObjectsAreEqual([]string{"a@example.com", "b@example.com"}, req.Notify)
	})).Return(&service.Summary{Source: "products.csv", Total: 1, Imported: 1, Errors: []service.RowError{}}, nil)

	var closed bool
	var out bytes.Buffer
	cmd := newRootCmd(fakeWiring(svc, &closed))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"file", csvPath, "--type", "category", "--fields", fieldsPath, "--base-path", "media/", "--notify", "a@example.com,b@example.com"})

	require.NoError(t, cmd.Execute())
	assert.True(t, closed)

	var sum service.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &sum))
	assert.Equal(t, 1, sum.Imported)
	svc.AssertExpectations(t)
}

func TestFileCmd_Errors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	csvPath := writeFile(t, "products.csv", "sku\nS1\n")

	t.Run("missing file", func(t *testing.T) {
		var closed bool
		cmd := newRootCmd(fakeWiring(new(serviceMocks.MockImportService), &closed))
		cmd.SetArgs([]string{"file", filepath.Join(t.TempDir(), "nope.csv")})
		assert.ErrorContains(t, cmd.Execute(), "open import file")
		assert.False(t, closed)
	})

	t.Run("bad fields", func(t *testing.T) {
		var closed bool
		cmd := newRootCmd(fakeWiring(new(serviceMocks.MockImportService), &closed))
		cmd.SetArgs([]string{"file", csvPath, "--fields", writeFile(t, "fields.json", "{")})
		assert.ErrorContains(t, cmd.Execute(), "parse fields")
	})

	t.Run("service error still closes", func(t *testing.T) {
		svc := new(serviceMocks.MockImportService)
		svc.On("ImportFile", mock.Anything, "products.csv", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		var closed bool
		cmd := newRootCmd(fakeWiring(svc, &closed))
		cmd.SetArgs([]string{"file", csvPath})
		assert.EqualError(t, cmd.Execute(), "boom")
		assert.True(t, closed)
	})

	t.Run("wiring error", func(t *testing.T) {
		failing := func(context.Context, *config.AppConfig, *zap.Logger) (service.ImportService, func(context.Context) error, error) {
			return nil, nil, errors.New("db ping: refused")
		}
		cmd := newRootCmd(failing)
		cmd.SetArgs([]string{"file", csvPath})
		assert.EqualError(t, cmd.Execute(), "db ping: refused")
	})

	t.Run("requires a path", func(t *testing.T) {
		var closed bool
		cmd := newRootCmd(fakeWiring(nil, &closed))
		cmd.SetArgs([]string{"file"})
		assert.Error(t, cmd.Execute())
	})
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	var ran bool
	cmd := migrateCmd(func(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
		ran = true
		return nil
	})
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.True(t, ran)
}

func TestLoadFields(t *testing.T) {
	fields, err := loadFields("")
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = loadFields(writeFile(t, "f.json", `[{"code":"description","type":"textarea","enable_wysiwyg":true},{"code":"x","type":"weird"}]`))
	require.NoError(t, err)
	assert.Equal(t, []model.Field{
		model.NewField("description", "textarea", true),
		model.NewField("x", "weird", false),
	}, fields)

	_, err = loadFields(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read fields")
}
