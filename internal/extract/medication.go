package extract

import (
	"regexp"
	"strings"

	"github.com/gyeh/rximport/internal/model"
)

var (
	strengthRe = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*(mg|mcg|g|ml|units?)`)
	formRe     = regexp.MustCompile(`(?i)(tablets?|capsules?|liquid|cream|ointment|drops|spray|patch|injection)`)
)

// ParseMedicationString splits a combined "Name Strength Form" string like
// "Cyclobenzaprine 10mg Tablets" into its parts. Total over all inputs:
// worst case the whole trimmed input comes back as the name with the form
// defaulted to tablet.
func ParseMedicationString(text string) model.ParsedMedication {
	text = strings.TrimSpace(text)
	med := model.ParsedMedication{Name: text, Form: model.FormTablet}

	strengthLoc := strengthRe.FindStringIndex(text)
	if strengthLoc != nil {
		med.Strength = text[strengthLoc[0]:strengthLoc[1]]
	}

	formLoc := formRe.FindStringIndex(text)
	if formLoc != nil {
		med.Form = canonicalForm(text[formLoc[0]:formLoc[1]])
	}

	// Name is whatever precedes the earliest of the two matches.
	cut := -1
	if strengthLoc != nil {
		cut = strengthLoc[0]
	}
	if formLoc != nil && (cut < 0 || formLoc[0] < cut) {
		cut = formLoc[0]
	}
	if cut >= 0 {
		if name := strings.TrimSpace(text[:cut]); name != "" {
			med.Name = name
		}
	}
	return med
}

// canonicalForm maps a matched form token to the fixed vocabulary,
// stripping the plural on tablet/capsule. "drops" is canonical as-is.
func canonicalForm(tok string) string {
	tok = strings.ToLower(tok)
	switch tok {
	case "tablets":
		return model.FormTablet
	case "capsules":
		return model.FormCapsule
	}
	return tok
}
