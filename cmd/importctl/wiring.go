package main

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"dataimport/internal/config"
	"dataimport/internal/database"
	"dataimport/internal/database/migration"
	"dataimport/internal/fetch"
	"dataimport/internal/filestore"
	"dataimport/internal/importer"
	"dataimport/internal/notification"
	"dataimport/internal/otel"
	"dataimport/internal/repository/postgres"
	"dataimport/internal/service"
	"dataimport/internal/storage"
)

// wiring builds the service for a command. close releases everything it opened
// and waits for queued notifications.
type wiring func(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (svc service.ImportService, close func(context.Context) error, err error)

// migrator runs schema migrations against the configured database.
type migrator func(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error

func openDB(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func defaultMigrate(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	return db.Close()
}

func defaultWiring(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (service.ImportService, func(context.Context) error, error) {
	shutdownTracing, err := otel.Init(ctx, log, otel.WithServiceName("importctl"), otel.WithServiceVersion(version))
	if err != nil {
		return nil, nil, err
	}

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return nil, nil, errors.Join(err, shutdownTracing(ctx))
	}
	fail := func(err error) (service.ImportService, func(context.Context) error, error) {
		return nil, nil, errors.Join(err, db.Close(), shutdownTracing(ctx))
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fail(err)
	}
	renderer, err := notification.NewRenderer()
	if err != nil {
		return fail(err)
	}
	queue := notification.NewQueue(notification.NewSender(cfg.Mail, log), renderer, cfg.Mail, log)
	queue.Start(context.WithoutCancel(ctx))

	processor := importer.NewFieldProcessor(fetch.New(cfg.Fetch), objStore, filestore.New(objStore))
	svc := service.NewImportService(processor, objStore, postgres.NewImportRowPostgres(db), queue,
		service.WithDefaultBasePath(cfg.Import.DefaultBasePath),
		service.WithFailureRecipients(cfg.Import.NotifyOnFailure),
	)

	closeFn := func(ctx context.Context) error {
		return errors.Join(queue.Shutdown(ctx), db.Close(), shutdownTracing(ctx))
	}
	return svc, closeFn, nil
}
