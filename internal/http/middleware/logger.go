package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger logs one structured line per request and exposes a request-scoped
// logger, tagged with request_id, to handlers through the user context.
//
// Fields: request_id, method, path, status, latency (milliseconds).
func Logger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.L()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid := GetRequestID(c)
		reqLog := log.With(zap.String("request_id", rid))
		c.SetUserContext(ctxzap.ToContext(c.UserContext(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		level := zapcore.InfoLevel
		if status >= fiber.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}

		if ce := reqLog.Check(level, "request"); ce != nil {
			ce.Write(
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
			)
		}
		return err
	}
}
