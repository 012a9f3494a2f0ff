package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/logging"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "roboticsdaily",
		Short:         "Robotics news aggregator: scrape, enrich, serve",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults to $ROBOTICS_DAILY_CONFIG; built-in defaults when unset)")

	root.AddCommand(serveCmd(), scrapeCmd(), migrateCmd(), snapshotCmd(), pruneCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *slog.Logger) {
	var cfg config.Config
	if configPath != "" {
		cfg = config.LoadFile(configPath)
	} else {
		cfg = config.Load()
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return cfg, logger
}
