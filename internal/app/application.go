package app

import (
	"fmt"
	"log/slog"
	"time"

	"salesdash.senseiquotes.org/internal/appconf"
	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/goals"
	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/series"
	"salesdash.senseiquotes.org/internal/sources"
)

// Application holds the dependencies for our HTTP handlers, helpers, and middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Sources *sources.Manager
	Goals   series.GoalPolicy
}

// New wires the source manager and goal table described by cfg.
func New(cfg appconf.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	table := goals.DefaultTable()
	if cfg.GoalsPath != "" {
		loaded, err := goals.LoadFile(cfg.GoalsPath, cfg.FallbackGoal)
		if err != nil {
			return nil, err
		}
		table = loaded
	} else if cfg.FallbackGoal != goals.DefaultFallback {
		quotas := make(map[string]float64)
		for _, name := range table.Names() {
			quotas[name] = table.Lookup(name)
		}
		withFallback, err := goals.NewTable(quotas, cfg.FallbackGoal)
		if err != nil {
			return nil, fmt.Errorf("building goal table: %w", err)
		}
		table = withFallback
	}

	return &Application{
		Config:  cfg,
		Logger:  logger,
		Sources: sources.NewManager(sources.Config{Root: cfg.SourceRoot, Timeout: 30 * time.Second}, logger),
		Goals:   series.GoalPolicy{PrimaryMetric: cfg.PrimaryMetric, Table: table},
	}, nil
}

// DashboardConfig is the controller configuration for one dashboard session.
func (app *Application) DashboardConfig() dashboard.Config {
	return dashboard.Config{
		SummaryURL: app.Config.SummaryURL,
		DailyURL:   app.Config.DailyURL,
		Goals:      app.Goals,
	}
}
