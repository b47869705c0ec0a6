package model

import "time"

// Medication form vocabulary. Anything the parser cannot classify falls
// back to FormTablet.
const (
	FormTablet    = "tablet"
	FormCapsule   = "capsule"
	FormLiquid    = "liquid"
	FormCream     = "cream"
	FormOintment  = "ointment"
	FormDrops     = "drops"
	FormSpray     = "spray"
	FormPatch     = "patch"
	FormInjection = "injection"
)

// AllForms lists the recognized medication forms in canonical order.
var AllForms = []string{
	FormTablet, FormCapsule, FormLiquid, FormCream,
	FormOintment, FormDrops, FormSpray, FormPatch, FormInjection,
}

// PatientProfile holds best-effort facts extracted from the free-text
// preamble of a pharmacy export. Every field is optional; an empty field
// means the preamble never mentioned it.
type PatientProfile struct {
	Name        string
	Address     string
	Phone       string // exactly 10 digits when set
	DateOfBirth *time.Time
	Gender      string // "Male", "Female", or ""
}

// ParsedMedication is the result of splitting a combined
// "Name Strength Form" medication string.
type ParsedMedication struct {
	Name     string // never empty after parsing
	Strength string // e.g. "10mg", verbatim including unit
	Form     string // one of AllForms, defaults to FormTablet
}

// PrescriptionFillRecord is one validated prescription row from an export.
// Rows without a strict MM/DD/YYYY fill date or a medication name never
// become records; they are dropped during extraction.
type PrescriptionFillRecord struct {
	Medication         ParsedMedication
	FillDate           time.Time
	Quantity           int
	Prescriber         string
	PrescriptionNumber string
	PriceCents         int64
	NDC                string
	SourceRow          int // 1-based row position in the source file
}
