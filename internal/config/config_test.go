package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("FETCH_INSECURE_SKIP_VERIFY", "false")
	t.Setenv("MAIL_WORKERS", "4")
	t.Setenv("IMPORT_NOTIFY_ON_FAILURE", "ops@example.com, ,admin@example.com")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.Fetch.InsecureSkipVerify)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.Equal(t, []string{"ops@example.com", "admin@example.com"}, cfg.Import.NotifyOnFailure)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT_SEC", "")
	t.Setenv("FETCH_INSECURE_SKIP_VERIFY", "")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("LOG_FORMAT", "")

	cfg := Load()

	assert.Equal(t, 30, cfg.Fetch.TimeoutSec)
	assert.True(t, cfg.Fetch.InsecureSkipVerify)
	assert.Equal(t, int64(20<<20), cfg.Fetch.MaxBytes)
	assert.Empty(t, cfg.Mail.SendGridAPIKey)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, "")
	assert.Nil(t, getEnvList(key))

	t.Setenv(key, " a ,b,, c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key))
}
