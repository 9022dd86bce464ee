package logging

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dataimport/internal/config"
)

func TestNew_AppliesOptions(t *testing.T) {
	l, err := New(FromConfig(config.LogConfig{Level: "warn", Format: "console"})...)
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestWithLogLevel_InvalidFallsBackToInfo(t *testing.T) {
	zc := zap.NewProductionConfig()
	WithLogLevel("nope")(&zc)

	assert.Equal(t, zapcore.InfoLevel, zc.Level.Level())
}

func TestWithLogFormat(t *testing.T) {
	zc := zap.NewProductionConfig()

	WithLogFormat(LogFormatConsole)(&zc)
	assert.Equal(t, LogFormatConsole, zc.Encoding)

	WithLogFormat("xml")(&zc)
	assert.Equal(t, LogFormatJSON, zc.Encoding)
}

func TestExtract(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core)

	ctx := ctxzap.ToContext(context.Background(), scoped)
	Extract(ctx).Info("scoped")
	assert.Equal(t, 1, logs.FilterMessage("scoped").Len())

	// A bare context must still yield a usable logger.
	assert.NotNil(t, Extract(context.Background()))
}
