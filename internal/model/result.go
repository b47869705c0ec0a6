package model

import "time"

// ImportResult captures everything a single file import produced. It is the
// only value surfaced to the caller; it is never persisted itself.
//
// Success reflects file readability only. A file can import with
// Success=true and a nonzero ErrorsCount when individual rows failed to
// reconcile; callers must inspect Errors, not just Success.
type ImportResult struct {
	ImportBatchID string `json:"importBatchId"`
	FilePath      string `json:"filePath"`
	FileSHA256    string `json:"fileSha256"`
	Format        string `json:"format"`
	Success       bool   `json:"success"`

	Profile PatientProfile `json:"profile"`

	CreatedMedicines []*Medicine      `json:"createdMedicines"`
	UpdatedMedicines []*Medicine      `json:"updatedMedicines"`
	CreatedLogs      []*MedicationLog `json:"createdLogs"`
	Warnings         []string         `json:"warnings"`
	Errors           []string         `json:"errors"` // one "Row <n>: <msg>" entry per failed row

	TotalRecords     int `json:"totalRecords"`
	MedicinesCreated int `json:"medicinesCreated"`
	MedicinesUpdated int `json:"medicinesUpdated"`
	LogsCreated      int `json:"logsCreated"`
	ErrorsCount      int `json:"errorsCount"`

	DurationRead      time.Duration `json:"-"`
	DurationReconcile time.Duration `json:"-"`
	DurationTotal     time.Duration `json:"-"`
}
