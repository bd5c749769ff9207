package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"salesdash.senseiquotes.org/internal/app"
	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/restapi"
	"salesdash.senseiquotes.org/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), application)
		},
	}
	cmd.Flags().IntVar(&port, "port", 4000, "API server port")
	return cmd
}

// routes builds the full handler: API, page and debug routes behind the shared middleware.
func routes(api *restapi.RestAPI, ui *webui.WebUI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	ui.SetWebUIRoutes(router)
	return api.WithMiddleware(router)
}

func serve(ctx context.Context, application *app.Application) error {
	logger := logging.ForComponent(application.Logger, logging.ComponentHTTP)
	cfg := application.Config

	api := restapi.NewRestAPI(application)
	defer api.Close()

	scheduler, err := newExportScheduler(application)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      routes(api, webui.New(application)),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newExportScheduler registers the periodic workbook export when a schedule is configured.
func newExportScheduler(application *app.Application) (*cron.Cron, error) {
	scheduler := cron.New()
	logger := logging.ForComponent(application.Logger, logging.ComponentScheduler)
	spec := application.Config.ExportSchedule
	if spec == "" {
		return scheduler, nil
	}

	_, err := scheduler.AddFunc(spec, func() {
		path := filepath.Join(application.Config.ExportDir, exportFileName(time.Now()))
		if err := exportWorkbook(context.Background(), application, path); err != nil {
			logging.LogError(logger, "scheduled export failed", err, slog.String("path", path))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("export_schedule: %w", err)
	}
	logging.LogOperation(logger, "export_scheduled",
		slog.String("schedule", spec),
		slog.String("dir", application.Config.ExportDir))
	return scheduler, nil
}
