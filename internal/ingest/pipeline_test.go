package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/rximport/internal/config"
	"github.com/gyeh/rximport/internal/detect"
	"github.com/gyeh/rximport/internal/ingest"
	"github.com/gyeh/rximport/internal/tabular"
)

const testUserID = "8a7b6c5d-1234-4abc-9def-000000000001"

const walgreensExport = `Walgreens Pharmacy
Showing Prescriptions 01/01/2025 - 09/30/2025
Rune Larsen
555 n danebo ave spc 34
"eugene, OR 974022230"
5416062179
01/14/1971
Male
Fill Date,Prescription,Rx #,Qty,Prescriber,Pharmacist,NDC#,Insurance,Claim Reference #,Price
09/08/2025,Cyclobenzaprine 10mg Tablets,185848411643,90,"Wilson,Erica",SMM,29300041510,APM,252514899525277999,$0.00
08/01/2025,Metformin 500mg Tablets,111222333,60,"Smith,John",SMM,12345678901,APM,252514899525278000,$4.99
,,,,,,,,Total ,$0.00
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(path string) *config.Config {
	return &config.Config{
		FilePath:      path,
		UserID:        testUserID,
		UserFirstName: "Test",
		UserLastName:  "User",
		Format:        "auto",
	}
}

func TestRun_WalgreensFile(t *testing.T) {
	path := writeTemp(t, "export.csv", walgreensExport)
	mem := newMemStores()
	log := zerolog.Nop()

	result, err := ingest.Run(context.Background(), mem.stores(), log, testConfig(path))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Success {
		t.Error("Success = false for readable file")
	}
	if result.Format != string(detect.FormatWalgreens) {
		t.Errorf("Format = %q", result.Format)
	}
	if result.TotalRecords != 2 || result.MedicinesCreated != 2 || result.MedicinesUpdated != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/2/0",
			result.TotalRecords, result.MedicinesCreated, result.MedicinesUpdated)
	}
	if result.LogsCreated != 2 || result.ErrorsCount != 0 {
		t.Errorf("logs/errors = %d/%d, want 2/0", result.LogsCreated, result.ErrorsCount)
	}

	if result.Profile.Name != "Rune Larsen" {
		t.Errorf("Profile.Name = %q", result.Profile.Name)
	}
	if result.Profile.Address != "555 n danebo ave spc 34, eugene, OR 974022230" {
		t.Errorf("Profile.Address = %q", result.Profile.Address)
	}
	if result.Profile.Phone != "5416062179" || result.Profile.Gender != "Male" {
		t.Errorf("Profile = %+v", result.Profile)
	}

	// The family member came from the profile, not the requesting user.
	if len(mem.members.members) != 1 {
		t.Fatalf("members created = %d, want 1", len(mem.members.members))
	}
	member := mem.members.members[0]
	if member.FirstName != "Rune" || member.LastName != "Larsen" || member.Relationship != "other" {
		t.Errorf("member = %+v", member)
	}
	if !strings.Contains(member.Notes, "555 n danebo ave spc 34") {
		t.Errorf("member notes missing address: %q", member.Notes)
	}

	med := result.CreatedMedicines[0]
	if med.Name != "Cyclobenzaprine" || med.Strength != "10mg" || med.Form != "tablet" {
		t.Errorf("medicine = %+v", med)
	}
	if med.TotalPills != 90 || med.PillsRemaining != 90 {
		t.Errorf("pill counts = %d/%d", med.TotalPills, med.PillsRemaining)
	}
	if med.Dosage != "1 tablet" || med.Frequency != "as-needed" {
		t.Errorf("dosage defaults = %q/%q", med.Dosage, med.Frequency)
	}
	if med.PharmacyName != "Walgreens" {
		t.Errorf("PharmacyName = %q", med.PharmacyName)
	}
	if med.PrescriptionDate == nil || med.StartDate == nil || !med.PrescriptionDate.Equal(*med.StartDate) {
		t.Errorf("dates = %v/%v", med.PrescriptionDate, med.StartDate)
	}
}

// Re-importing the same file updates the existing medicines and still
// appends fresh logs every time.
func TestRun_ReimportUpdatesAndDuplicatesLogs(t *testing.T) {
	path := writeTemp(t, "export.csv", walgreensExport)
	mem := newMemStores()
	log := zerolog.Nop()
	ctx := context.Background()

	first, err := ingest.Run(ctx, mem.stores(), log, testConfig(path))
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := ingest.Run(ctx, mem.stores(), log, testConfig(path))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.MedicinesCreated != 2 || second.MedicinesCreated != 0 {
		t.Errorf("created = %d then %d, want 2 then 0", first.MedicinesCreated, second.MedicinesCreated)
	}
	if second.MedicinesUpdated != 2 {
		t.Errorf("second updated = %d, want 2", second.MedicinesUpdated)
	}
	if len(mem.medicines.medicines) != 2 {
		t.Errorf("stored medicines = %d, want 2", len(mem.medicines.medicines))
	}
	// Logs are never deduplicated.
	if len(mem.logs.logs) != 4 {
		t.Errorf("stored logs = %d, want 4", len(mem.logs.logs))
	}
	if len(mem.members.members) != 1 {
		t.Errorf("members = %d, want 1", len(mem.members.members))
	}
}

func TestRun_RowErrorDoesNotAbortFile(t *testing.T) {
	path := writeTemp(t, "export.csv", walgreensExport)
	mem := newMemStores()
	mem.logs.failOn = 2

	result, err := ingest.Run(context.Background(), mem.stores(), zerolog.Nop(), testConfig(path))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Success {
		t.Error("Success must stay true despite row errors")
	}
	if result.ErrorsCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("errors = %d/%v", result.ErrorsCount, result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("error = %q, want Row 2 prefix", result.Errors[0])
	}
	if result.LogsCreated != 1 {
		t.Errorf("LogsCreated = %d, want 1", result.LogsCreated)
	}
}

func TestRun_GenericFileUsesSelfMember(t *testing.T) {
	content := "Medication,Date,Qty\nMetformin 500mg Tablets,08/15/2025,60\n"
	path := writeTemp(t, "other.csv", content)
	mem := newMemStores()
	ctx := context.Background()

	result, err := ingest.Run(ctx, mem.stores(), zerolog.Nop(), testConfig(path))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Format != string(detect.FormatGeneric) {
		t.Errorf("Format = %q", result.Format)
	}
	if result.MedicinesCreated != 1 {
		t.Errorf("MedicinesCreated = %d", result.MedicinesCreated)
	}
	if mem.members.selfCount() != 1 {
		t.Fatalf("self members = %d, want 1", mem.members.selfCount())
	}

	// Self resolution is idempotent across imports.
	if _, err := ingest.Run(ctx, mem.stores(), zerolog.Nop(), testConfig(path)); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if mem.members.selfCount() != 1 {
		t.Errorf("self members after reimport = %d, want 1", mem.members.selfCount())
	}
	self := mem.members.members[0]
	if self.FirstName != "Test" || self.LastName != "User" {
		t.Errorf("self member seeded as %q %q", self.FirstName, self.LastName)
	}
}

func TestRun_GenericMissingDatesWarn(t *testing.T) {
	content := "Medication,Qty\nMetformin 500mg Tablets,60\n"
	path := writeTemp(t, "other.csv", content)
	mem := newMemStores()

	result, err := ingest.Run(context.Background(), mem.stores(), zerolog.Nop(), testConfig(path))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.MedicinesCreated != 1 {
		t.Errorf("MedicinesCreated = %d", result.MedicinesCreated)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "no parsable fill date") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestRun_UnsupportedExtensionFailsWholeFile(t *testing.T) {
	path := writeTemp(t, "export.txt", walgreensExport)
	mem := newMemStores()

	result, err := ingest.Run(context.Background(), mem.stores(), zerolog.Nop(), testConfig(path))
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, tabular.ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
	var pe *ingest.PipelineError
	if !errors.As(err, &pe) || pe.Phase != "read" {
		t.Errorf("err = %v, want read-phase PipelineError", err)
	}
	if len(mem.logs.logs) != 0 || len(mem.medicines.medicines) != 0 {
		t.Error("unsupported file must produce zero partial results")
	}
}

func TestRun_CVSDetectedButNotImplemented(t *testing.T) {
	content := "Date Filled,Prescription Number,Drug Name\n09/08/2025,12345,Lisinopril\n"
	path := writeTemp(t, "cvs.csv", content)
	mem := newMemStores()

	_, err := ingest.Run(context.Background(), mem.stores(), zerolog.Nop(), testConfig(path))
	if !errors.Is(err, detect.ErrFormatNotImplemented) {
		t.Fatalf("err = %v, want ErrFormatNotImplemented", err)
	}
	var pe *ingest.PipelineError
	if !errors.As(err, &pe) || pe.Phase != "extract" {
		t.Errorf("err = %v, want extract-phase PipelineError", err)
	}
}

func TestRun_ExplicitFormatHint(t *testing.T) {
	// A generic-shaped file forced through the walgreens extractor finds
	// no table header and imports nothing, but the file itself succeeds.
	content := "Medication,Date,Qty\nMetformin 500mg Tablets,08/15/2025,60\n"
	path := writeTemp(t, "other.csv", content)
	cfg := testConfig(path)
	cfg.Format = "walgreens"
	mem := newMemStores()

	result, err := ingest.Run(context.Background(), mem.stores(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", result.TotalRecords)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a no-table warning")
	}
}
