// Command salesdash serves the sales dashboard and exports it to xlsx.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salesdash.senseiquotes.org/internal/appconf"
	"salesdash.senseiquotes.org/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	env        string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "salesdash",
		Short: "Sensei Quotes sales dashboard",
		Long: `salesdash serves the April vs May quotes dashboard with per-rep daily
drill-down and goal progress, and exports the same data to an xlsx workbook.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: "+appconf.DefaultConfigPath+" when present)")
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "", "Environment (development|test|production)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(newServeCmd(opts), newExportCmd(opts))
	return rootCmd
}

// load reads the configuration and applies the shared flags on top of it.
func (opts *options) load() (appconf.Config, *slog.Logger, error) {
	cfg, err := appconf.Load(opts.configPath)
	if err != nil {
		return appconf.Config{}, nil, err
	}
	if opts.env != "" {
		cfg.Env = appconf.EnvFlagToEnvironment(opts.env)
	}

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return appconf.Config{}, nil, fmt.Errorf("--log-level: %w", err)
	}
	return cfg, logging.NewLogger(os.Stdout, cfg.Env.String(), level), nil
}
