// Package extract turns raw pharmacy-export rows into structured patient
// and prescription data. The preamble heuristics here are deliberately an
// ordered list of small (predicate, field) rules rather than one branching
// function; each rule is testable on its own.
package extract

import (
	"regexp"
	"strings"

	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/tabular"
)

// headerToken is the leading cell of the Walgreens prescription table
// header; preamble scanning stops at the first line that opens with it.
const headerToken = "Fill Date"

var (
	nameRe      = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneRe     = regexp.MustCompile(`^\d{10}$`)
	cityStateRe = regexp.MustCompile(`^[A-Za-z\s.]+,\s*[A-Za-z]{2}(\s+[\d-]{4,10})?$`)
	digitRe     = regexp.MustCompile(`\d`)
	letterRe    = regexp.MustCompile(`[A-Za-z]`)
)

// Boilerplate banner lines excluded from patient-info candidates.
var bannerPrefixes = []string{
	"walgreens",
	"showing prescriptions",
}

// SplitPreamble separates a Walgreens export's free-text patient preamble
// from its prescription table. headerIdx is the index of the table header
// row, or -1 when the file has no recognizable table; the profile is
// extracted from the candidate lines either way.
func SplitPreamble(rows []tabular.Row) (model.PatientProfile, int) {
	headerIdx := -1
	for i := range rows {
		if rows[i].First() == headerToken {
			headerIdx = i
			break
		}
	}

	end := len(rows)
	if headerIdx >= 0 {
		end = headerIdx
	}

	var lines []string
	for _, r := range rows[:end] {
		if r.IsEmpty() {
			continue
		}
		line := r.Text()
		if isBannerLine(line) {
			continue
		}
		lines = append(lines, line)
	}

	return ProfileFromLines(lines), headerIdx
}

func isBannerLine(line string) bool {
	l := strings.ToLower(line)
	for _, p := range bannerPrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}

// ProfileFromLines applies the patient-info rules to candidate preamble
// lines in fixed precedence: name, address (with a City, ST continuation),
// phone, date of birth, gender. First matching line wins per field; a line
// consumed by an earlier field stays eligible for later ones. Missing
// fields stay empty, which is normal.
func ProfileFromLines(lines []string) model.PatientProfile {
	var p model.PatientProfile

	for _, l := range lines {
		if nameRe.MatchString(l) && len(l) > 3 && len(l) < 50 {
			p.Name = l
			break
		}
	}

	for _, l := range lines {
		switch {
		case p.Address == "" && looksLikeAddress(l):
			p.Address = l
		case p.Address != "" && !strings.Contains(p.Address, ",") && cityStateRe.MatchString(l):
			p.Address += ", " + l
		}
	}

	for _, l := range lines {
		if phoneRe.MatchString(l) {
			p.Phone = l
			break
		}
	}

	for _, l := range lines {
		if dob, ok := normalize.ParseFillDate(l); ok {
			p.DateOfBirth = &dob
			break
		}
	}

	for _, l := range lines {
		if l == "Male" || l == "Female" {
			p.Gender = l
			break
		}
	}

	return p
}

// looksLikeAddress: has both a digit and a letter, and is neither a
// 10-digit phone number nor a bare date.
func looksLikeAddress(l string) bool {
	return digitRe.MatchString(l) && letterRe.MatchString(l) &&
		!phoneRe.MatchString(l) && !normalize.IsStrictDate(l)
}
