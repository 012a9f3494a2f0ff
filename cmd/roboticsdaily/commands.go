package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"RoboticsDaily/internal/app"
	"RoboticsDaily/internal/domain"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the interval scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := loadConfig()
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Serve(cmd.Context()); err != nil {
				logger.Error("application stopped", "error", err)
				return err
			}
			return nil
		},
	}
}

func scrapeCmd() *cobra.Command {
	var reenrich int
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run the pipeline once and print the run summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := loadConfig()
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			summary, err := application.Scrape(cmd.Context(), domain.TriggerCLI)
			if err != nil {
				return err
			}
			// Outcomes are in the logs; keep stdout readable.
			summary.Outcomes = nil
			if err := printJSON(summary); err != nil {
				return err
			}

			if reenrich > 0 {
				result, err := application.Reenrich(cmd.Context(), reenrich)
				if err != nil {
					return err
				}
				return printJSON(result)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&reenrich, "reenrich", 0, "after the run, retry enrichment for up to N stored articles without a summary")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := loadConfig()
			return app.Migrate(cmd.Context(), cfg, logger)
		},
	}
}

func snapshotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export articles, categories and trending topics to a static JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := loadConfig()
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			path, err := application.Snapshot(cmd.Context(), out)
			if err != nil {
				return err
			}
			logger.Info("snapshot written", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to snapshot.path)")
	return cmd
}

func pruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete articles older than the given number of days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := loadConfig()
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			removed, err := application.Prune(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d articles\n", removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "retention in days")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
