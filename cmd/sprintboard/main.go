// Command sprintboard serves the sprint board API and runs the daily sprint
// sweep.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"sprintboard/internal/boards"
	"sprintboard/internal/config"
	"sprintboard/internal/logging"
	"sprintboard/internal/metrics"
	"sprintboard/internal/storage/sqlite"
)

var (
	configPath string
	dbPath     string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sprintboard",
	Short: "Sprint board backend",
	Long: `sprintboard keeps fixed-duration project boards split into sprints,
locks columns as sprints end and reports burndown.

Configuration is read from an optional YAML file and SPRINTBOARD_* environment
variables, e.g. SPRINTBOARD_SERVER_ADDR=:9000.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sqlite database file (overrides config)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
}

// app is everything a command needs to talk to the board service.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *sqlite.Store
	boards  *boards.Service
	metrics *metrics.Metrics
}

// setup loads configuration and opens the store, logging to logOut. Callers
// must close().
func setup(logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	m := metrics.New()
	svc := boards.New(store, logger, boards.WithLocation(loc), boards.WithMetrics(m))
	return &app{cfg: cfg, logger: logger, store: store, boards: svc, metrics: m}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
