package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/rximport/internal/db"
	"github.com/gyeh/rximport/internal/exitcode"
	"github.com/gyeh/rximport/internal/ingest"
	"github.com/gyeh/rximport/internal/logging"
	"github.com/gyeh/rximport/internal/store"
)

var configFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a pharmacy export file into the database",
	RunE:  runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the export file (required)")
	f.StringVar(&cfg.UserID, "user", "", "UUID of the requesting user (required)")
	f.StringVar(&cfg.UserFirstName, "first-name", "", "Requesting user's first name (seeds the self member)")
	f.StringVar(&cfg.UserLastName, "last-name", "", "Requesting user's last name (seeds the self member)")
	f.StringVar(&cfg.Format, "format", "auto", "Source format: auto, walgreens, cvs, or generic")
	f.StringVar(&configFile, "config", "", "Optional YAML config restricting enabled formats")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config file failed to load")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	result, err := ingest.Run(ctx, store.NewPGStores(pool), log, &cfg)
	if err != nil {
		if pe, ok := err.(*ingest.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("import failed")
			switch pe.Phase {
			case "read", "detect":
				os.Exit(exitcode.ReadError)
			default:
				os.Exit(exitcode.ReconcileError)
			}
		}
		log.Error().Err(err).Msg("import failed")
		os.Exit(exitcode.ReconcileError)
	}

	fmt.Printf("Import complete: %d records, %d medicines created, %d updated, %d logs, %d row errors (%.1fs)\n",
		result.TotalRecords, result.MedicinesCreated, result.MedicinesUpdated,
		result.LogsCreated, result.ErrorsCount, result.DurationTotal.Seconds())
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}

	if result.ErrorsCount > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
