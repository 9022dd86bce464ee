package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"dataimport/docs"
	"dataimport/internal/config"
	"dataimport/internal/database"
	"dataimport/internal/database/migration"
	"dataimport/internal/fetch"
	"dataimport/internal/filestore"
	handlers "dataimport/internal/http/handler"
	"dataimport/internal/http/middleware"
	"dataimport/internal/importer"
	"dataimport/internal/logging"
	"dataimport/internal/notification"
	"dataimport/internal/otel"
	"dataimport/internal/repository/postgres"
	"dataimport/internal/service"
	"dataimport/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	bodyLimit       = 64 << 20
)

// @title Data Import API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()

	logger, err := logging.New(logging.FromConfig(cfg.Log)...)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxzap.ToContext(ctx, logger)

	shutdownTracing, err := otel.Init(ctx, logger, otel.WithServiceVersion(version))
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mediaMetrics, err := importer.NewMetrics(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	renderer, err := notification.NewRenderer()
	if err != nil {
		return err
	}
	queue := notification.NewQueue(notification.NewSender(cfg.Mail, logger), renderer, cfg.Mail, logger)
	queue.Start(context.WithoutCancel(ctx))

	processor := importer.NewFieldProcessor(
		fetch.New(cfg.Fetch),
		objStore,
		filestore.New(objStore),
		importer.WithMetrics(mediaMetrics),
	)
	svc := service.NewImportService(processor, objStore, postgres.NewImportRowPostgres(db), queue,
		service.WithDefaultBasePath(cfg.Import.DefaultBasePath),
		service.WithFailureRecipients(cfg.Import.NotifyOnFailure),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
		Immutable:    true,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	docs.SwaggerInfo.Host = cfg.AppHost
	handlers.RegisterRoutes(app, db, svc, reg)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", ":"+cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err = <-listenErr:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	errs = append(errs,
		app.ShutdownWithContext(shutdownCtx),
		queue.Shutdown(shutdownCtx),
		shutdownTracing(shutdownCtx),
	)
	return errors.Join(errs...)
}
