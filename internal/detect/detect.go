// Package detect classifies pharmacy export files by source chain.
// Detection is intentionally permissive: real exports vary in header casing
// and spacing, so several independent weak signals each suffice on their
// own.
package detect

import (
	"errors"
	"strings"

	"github.com/gyeh/rximport/internal/tabular"
)

// Format identifies the source of a pharmacy export.
type Format string

const (
	FormatAuto      Format = "auto"
	FormatWalgreens Format = "walgreens"
	FormatCVS       Format = "cvs"
	FormatGeneric   Format = "generic"
)

// ErrFormatNotImplemented is returned when a detected format has no
// extractor yet. CVS detection works; its extraction does not.
var ErrFormatNotImplemented = errors.New("format detected but not implemented")

// AllFormats lists the formats a config file may enable.
var AllFormats = []Format{FormatWalgreens, FormatCVS, FormatGeneric}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, true
	case "walgreens":
		return FormatWalgreens, true
	case "cvs":
		return FormatCVS, true
	case "generic":
		return FormatGeneric, true
	}
	return "", false
}

// Walgreens prescription-table header names, matched case-insensitively.
var walgreensHeaders = map[string]bool{
	"fill date": true,
	"rx #":      true,
	"ndc#":      true,
}

// Pharmacist operator initials observed only in Walgreens exports. Weak
// signal; any single hit is sufficient like the rest.
var walgreensOperatorInitials = map[string]bool{
	"SMM": true,
}

// Detect classifies rows as one of the concrete formats. First match wins:
// Walgreens signals, then CVS signals, then the generic fallback.
func Detect(rows []tabular.Row) Format {
	pharmacistCol := -1
	for _, r := range rows {
		if r.Preamble {
			return FormatWalgreens
		}
		for i, f := range r.Fields {
			v := strings.ToLower(strings.TrimSpace(f))
			if walgreensHeaders[v] {
				return FormatWalgreens
			}
			if strings.Contains(v, "walgreens") {
				return FormatWalgreens
			}
			if v == "pharmacist" {
				pharmacistCol = i
			}
		}
		if pharmacistCol >= 0 && pharmacistCol < len(r.Fields) &&
			walgreensOperatorInitials[strings.TrimSpace(r.Fields[pharmacistCol])] {
			return FormatWalgreens
		}
	}

	for _, r := range rows {
		for _, f := range r.Fields {
			v := strings.ToLower(strings.TrimSpace(f))
			if v == "date filled" || v == "prescription number" {
				return FormatCVS
			}
			if strings.Contains(v, "cvs") {
				return FormatCVS
			}
		}
	}

	return FormatGeneric
}
