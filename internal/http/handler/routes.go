package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "dataimport/docs"
	"dataimport/internal/service"
)

const healthTimeout = 2 * time.Second

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// gatherer may be nil, in which case /metrics is not served.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ImportService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", Metrics(gatherer))
	}
	app.Get("/swagger/*", Swagger())

	imports := app.Group("/imports")
	imports.Post("/transform", TransformField(svc))
	imports.Get("/rows", ListImportRows(svc))
	imports.Get("/rows/:id", GetImportRow(svc))
	imports.Delete("/rows/:id", DeleteImportRow(svc))
	imports.Post("/:type/rows", ImportRows(svc))
	imports.Post("/:type/files", ImportFile(svc))

	app.Get("/media/*", MediaRedirect(svc))
}

// HealthCheck checks DB connectivity only.
//
// @Summary Readiness probe
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry in text format.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Swagger serves the UI and doc.json. The documented host is fixed at startup
// through docs.SwaggerInfo; an empty host means the host serving the docs.
func Swagger() fiber.Handler {
	return swagger.HandlerDefault
}
