package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"salesdash.senseiquotes.org/internal/app"
	"salesdash.senseiquotes.org/internal/export"
	"salesdash.senseiquotes.org/internal/logging"
)

func newExportCmd(opts *options) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard data to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			path := outputPath
			if path == "" {
				path = filepath.Join(cfg.ExportDir, exportFileName(time.Now()))
			}
			if err := exportWorkbook(cmd.Context(), application, path); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <export_dir>/dashboard-<timestamp>.xlsx)")
	return cmd
}

func exportFileName(t time.Time) string {
	return "dashboard-" + t.Format("20060102-150405") + ".xlsx"
}

func exportWorkbook(ctx context.Context, application *app.Application, path string) error {
	start := time.Now()
	logger := logging.ForComponent(application.Logger, logging.ComponentExport)
	report, err := export.BuildReport(ctx, application.Sources, application.DashboardConfig())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := report.SaveAs(path, logger); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	logging.LogOperation(logger, "workbook_exported",
		slog.String("path", path),
		slog.Int("representatives", len(report.Details)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
