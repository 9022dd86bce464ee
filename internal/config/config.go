package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, is used as-is and the discrete fields are ignored.
type DatabaseConfig struct {
	URL                string
	AppName            string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FetchConfig controls how remote media referenced by import rows is downloaded.
type FetchConfig struct {
	TimeoutSec         int
	MaxBytes           int64
	InsecureSkipVerify bool
	UserAgent          string
}

// MailConfig holds notification delivery and queue settings.
// An empty SendGridAPIKey selects the log-only sender.
type MailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	QueueSize      int
	Workers        int
}

// LogConfig selects the zap logger level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// ImportConfig holds defaults applied to import requests.
type ImportConfig struct {
	DefaultBasePath string
	NotifyOnFailure []string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Fetch    FetchConfig
	Mail     MailConfig
	Log      LogConfig
	Import   ImportConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", ""),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			AppName:            getEnv("DB_APP_NAME", "dataimport"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Fetch: FetchConfig{
			TimeoutSec:         getEnvInt("FETCH_TIMEOUT_SEC", 30),
			MaxBytes:           int64(getEnvInt("FETCH_MAX_BYTES", 20<<20)),
			InsecureSkipVerify: getEnvBool("FETCH_INSECURE_SKIP_VERIFY", true),
			UserAgent:          getEnv("FETCH_USER_AGENT", "dataimport/1.0"),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress:    getEnv("MAIL_FROM_ADDRESS", "no-reply@localhost"),
			FromName:       getEnv("MAIL_FROM_NAME", "Data Import"),
			QueueSize:      getEnvInt("MAIL_QUEUE_SIZE", 100),
			Workers:        getEnvInt("MAIL_WORKERS", 2),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Import: ImportConfig{
			DefaultBasePath: getEnv("IMPORT_BASE_PATH", ""),
			NotifyOnFailure: getEnvList("IMPORT_NOTIFY_ON_FAILURE"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated variable, dropping blank items.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
