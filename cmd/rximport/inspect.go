package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/rximport/internal/detect"
	"github.com/gyeh/rximport/internal/exitcode"
	"github.com/gyeh/rximport/internal/extract"
	"github.com/gyeh/rximport/internal/logging"
	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/tabular"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dry-run detection and extraction (no writes)",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to the export file (required)")
	_ = inspectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inspectCmd)
}

const inspectSampleSize = 5

func runInspect(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	cfg.Format = "auto"
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	rows, err := tabular.Read(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read file")
		os.Exit(exitcode.ReadError)
	}

	format := detect.Detect(rows)

	fmt.Println("=== rximport inspect ===")
	fmt.Printf("File:     %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:  %s\n", sha)
	fmt.Printf("Rows:     %d\n", len(rows))
	fmt.Printf("Format:   %s\n", format)

	var records []model.PrescriptionFillRecord
	switch format {
	case detect.FormatWalgreens:
		profile, headerIdx := extract.SplitPreamble(rows)
		fmt.Println()
		fmt.Println("Patient profile:")
		fmt.Printf("  Name:    %s\n", orNone(profile.Name))
		fmt.Printf("  Address: %s\n", orNone(profile.Address))
		fmt.Printf("  Phone:   %s\n", orNone(profile.Phone))
		dob := ""
		if profile.DateOfBirth != nil {
			dob = normalize.FormatFillDate(*profile.DateOfBirth)
		}
		fmt.Printf("  DOB:     %s\n", orNone(dob))
		fmt.Printf("  Gender:  %s\n", orNone(profile.Gender))

		it := extract.WalgreensRecords(rows, headerIdx)
		for {
			rec, ok := it.Next()
			if !ok {
				break
			}
			records = append(records, rec)
		}

	case detect.FormatCVS:
		fmt.Println("\nCVS extraction is not implemented yet; import would fail.")
		return nil

	default:
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		it := extract.GenericRecords(rows, today)
		for {
			rec, ok := it.Next()
			if !ok {
				break
			}
			records = append(records, rec)
		}
	}

	fmt.Printf("\nValidated records: %d\n", len(records))
	for i, rec := range records {
		if i >= inspectSampleSize {
			fmt.Printf("  ... and %d more\n", len(records)-inspectSampleSize)
			break
		}
		fmt.Printf("  %s  %-30s %-8s %-8s qty=%d\n",
			normalize.FormatFillDate(rec.FillDate),
			rec.Medication.Name, rec.Medication.Strength, rec.Medication.Form, rec.Quantity)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(not found)"
	}
	return s
}
