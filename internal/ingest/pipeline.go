// Package ingest wires the import pipeline: read the file, detect its
// source format, extract fill records, and reconcile each record against
// the entity stores in order.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/rximport/internal/config"
	"github.com/gyeh/rximport/internal/detect"
	"github.com/gyeh/rximport/internal/extract"
	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/store"
	"github.com/gyeh/rximport/internal/tabular"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// recordIterator is the single-pass record source both extractors provide.
type recordIterator interface {
	Next() (model.PrescriptionFillRecord, bool)
}

// Run executes the full import pipeline for one file. Whole-file failures
// (unreadable file, unsupported extension, unimplemented format) return a
// PipelineError; row-level failures never do. Rows are reconciled strictly
// in order because a family member or medicine created by row N must be
// visible to row N+1's lookup.
func Run(ctx context.Context, stores store.Stores, log zerolog.Logger, cfg *config.Config) (*model.ImportResult, error) {
	totalStart := time.Now()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, &PipelineError{Phase: "config", Err: fmt.Errorf("parse user id: %w", err)}
	}
	user := model.RequestingUser{ID: userID, FirstName: cfg.UserFirstName, LastName: cfg.UserLastName}
	batchID := uuid.New()

	// Phase 1: Read
	readStart := time.Now()
	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	rows, err := tabular.Read(cfg.FilePath)
	if err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	readDur := time.Since(readStart)
	log.Info().
		Str("file", cfg.FilePath).
		Str("sha256", sha).
		Int("rows", len(rows)).
		Dur("duration", readDur).
		Msg("file read")

	// Phase 2: Detect
	format, err := resolveFormat(cfg, rows)
	if err != nil {
		return nil, &PipelineError{Phase: "detect", Err: err}
	}
	log.Info().Str("format", string(format)).Msg("source format resolved")

	result := &model.ImportResult{
		ImportBatchID: batchID.String(),
		FilePath:      cfg.FilePath,
		FileSHA256:    sha,
		Format:        string(format),
		DurationRead:  readDur,
	}

	// Phase 3: Extract
	var iter recordIterator
	var genericIter *extract.GenericIter

	switch format {
	case detect.FormatWalgreens:
		profile, headerIdx := extract.SplitPreamble(rows)
		result.Profile = profile
		if headerIdx < 0 {
			result.Warnings = append(result.Warnings, "no prescription table header found")
		}
		if profile.Name != "" {
			log.Info().Str("patient", profile.Name).Msg("patient profile extracted")
		}
		iter = extract.WalgreensRecords(rows, headerIdx)

	case detect.FormatCVS:
		return nil, &PipelineError{Phase: "extract", Err: fmt.Errorf("cvs: %w", detect.ErrFormatNotImplemented)}

	default:
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		genericIter = extract.GenericRecords(rows, today)
		iter = genericIter
	}

	// Phase 4: Reconcile, strictly sequential
	reconcileStart := time.Now()
	rc := NewReconciler(stores)
	pharmacy := pharmacyName(format)

	for {
		rec, ok := iter.Next()
		if !ok {
			break
		}
		result.TotalRecords++

		out, err := rc.Reconcile(ctx, rec, &result.Profile, user, pharmacy, batchID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", result.TotalRecords, err))
			result.ErrorsCount++
			log.Warn().Err(err).Int("row", result.TotalRecords).Int("source_row", rec.SourceRow).Msg("row reconcile failed")
			continue
		}

		if out.IsNewMedicine {
			result.CreatedMedicines = append(result.CreatedMedicines, out.Medicine)
			result.MedicinesCreated++
		} else {
			result.UpdatedMedicines = append(result.UpdatedMedicines, out.Medicine)
			result.MedicinesUpdated++
		}
		result.CreatedLogs = append(result.CreatedLogs, out.Log)
		result.LogsCreated++
	}

	if genericIter != nil && genericIter.DefaultedDates() > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d rows had no parsable fill date; defaulted to the import date", genericIter.DefaultedDates()))
	}

	// Success reflects file readability only; row failures live in Errors.
	result.Success = true
	result.DurationReconcile = time.Since(reconcileStart)
	result.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("records", result.TotalRecords).
		Int("medicines_created", result.MedicinesCreated).
		Int("medicines_updated", result.MedicinesUpdated).
		Int("logs_created", result.LogsCreated).
		Int("row_errors", result.ErrorsCount).
		Str("total_duration", result.DurationTotal.String()).
		Msg("import complete")

	return result, nil
}

// resolveFormat applies an explicit format hint or runs auto-detection
// restricted to the formats the config enables. A detected-but-disabled
// chain format falls back to generic when generic is enabled.
func resolveFormat(cfg *config.Config, rows []tabular.Row) (detect.Format, error) {
	hint, ok := detect.ParseFormat(cfg.Format)
	if !ok {
		return "", fmt.Errorf("unknown format %q", cfg.Format)
	}
	if hint != detect.FormatAuto {
		return hint, nil
	}

	detected := detect.Detect(rows)
	if cfg.FormatEnabled(detected) {
		return detected, nil
	}
	if cfg.FormatEnabled(detect.FormatGeneric) {
		return detect.FormatGeneric, nil
	}
	return "", fmt.Errorf("detected format %q is disabled and generic fallback is not enabled", detected)
}

func pharmacyName(f detect.Format) string {
	switch f {
	case detect.FormatWalgreens:
		return "Walgreens"
	case detect.FormatCVS:
		return "CVS"
	default:
		return "Imported"
	}
}
