package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dataimport/internal/config"
	"dataimport/internal/logging"
	"dataimport/internal/model"
	"dataimport/internal/service"
)

const drainTimeout = 30 * time.Second

func newRootCmd(wire wiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "importctl",
		Short:         "importctl runs product and category imports from the command line",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "", "Override LOG_LEVEL")

	cmd.AddCommand(fileCmd(wire))
	cmd.AddCommand(migrateCmd(defaultMigrate))
	return cmd
}

// setup loads configuration and a logger honouring --log-level.
func setup(cmd *cobra.Command) (context.Context, *config.AppConfig, *zap.Logger, error) {
	cfg := config.Load()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	log, err := logging.New(logging.FromConfig(cfg.Log)...)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxzap.ToContext(ctx, log), cfg, log, nil
}

func fileCmd(wire wiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Import a CSV or XLSX file and print the summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importType, _ := cmd.Flags().GetString("type")
			fieldsPath, _ := cmd.Flags().GetString("fields")
			basePath, _ := cmd.Flags().GetString("base-path")
			notify, _ := cmd.Flags().GetStringSlice("notify")

			fields, err := loadFields(fieldsPath)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			ctx, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			svc, closeFn, err := wire(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
				defer cancel()
				if err := closeFn(drainCtx); err != nil {
					log.Warn("shutdown incomplete", zap.Error(err))
				}
			}()

			sum, err := svc.ImportFile(ctx, filepath.Base(args[0]), f, service.ImportRequest{
				ImportType: model.ImportType(importType),
				Fields:     fields,
				BasePath:   basePath,
				Notify:     notify,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}

	cmd.Flags().StringP("type", "t", string(model.ImportTypeProduct), "Import type (product, category, ...)")
	cmd.Flags().StringP("fields", "f", "", "Path to a JSON array of field descriptions")
	cmd.Flags().String("base-path", "", "Prefix prepended to existing media paths")
	cmd.Flags().StringSlice("notify", nil, "Recipients of the completion mail")
	return cmd
}

func migrateCmd(migrate migrator) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the import schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return migrate(ctx, cfg, log)
		},
	}
}

// loadFields reads field descriptions; an empty path means no described fields.
func loadFields(path string) ([]model.Field, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	var fields []model.Field
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("parse fields %s: %w", path, err)
	}
	return fields, nil
}
