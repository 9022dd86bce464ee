package logging

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dataimport/internal/config"
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Option func(*zap.Config)

func WithLogLevel(level string) Option {
	return func(c *zap.Config) {
		ll := zapcore.InfoLevel
		_ = ll.Set(level)
		c.Level.SetLevel(ll)
	}
}

func WithLogFormat(format string) Option {
	return func(c *zap.Config) {
		switch format {
		case LogFormatConsole:
			c.Encoding = LogFormatConsole
		default:
			c.Encoding = LogFormatJSON
		}
	}
}

// FromConfig maps the environment log settings onto logger options.
func FromConfig(cfg config.LogConfig) []Option {
	return []Option{WithLogLevel(cfg.Level), WithLogFormat(cfg.Format)}
}

// New builds a production zap logger and installs it as the global logger.
func New(opts ...Option) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	for _, opt := range opts {
		opt(&zc)
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)

	l.Debug("logger created", zap.String("log_level", zc.Level.String()))

	return l, nil
}

// Init creates a new zap logger and attaches it to the provided context.
func Init(ctx context.Context, opts ...Option) (context.Context, error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return ctxzap.ToContext(ctx, l), nil
}

// Extract returns the request-scoped logger, falling back to the global one
// when the context carries none.
func Extract(ctx context.Context) *zap.Logger {
	l := ctxzap.Extract(ctx)
	// ctxzap hands back a no-op logger for bare contexts.
	if !l.Core().Enabled(zapcore.FatalLevel) {
		return zap.L()
	}
	return l
}
