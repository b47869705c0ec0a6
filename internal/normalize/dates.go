package normalize

import (
	"regexp"
	"strings"
	"time"
)

const fillDateLayout = "01/02/2006"

// Pharmacy exports carry fill dates as strict MM/DD/YYYY; anything looser
// is treated as not-a-date rather than guessed at.
var fillDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// IsStrictDate reports whether s is exactly MM/DD/YYYY shaped. It does not
// validate calendar bounds; ParseFillDate does.
func IsStrictDate(s string) bool {
	return fillDateRe.MatchString(strings.TrimSpace(s))
}

// ParseFillDate parses a strict MM/DD/YYYY string. Returns false for
// anything that is not shaped like one or names an impossible date.
func ParseFillDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !fillDateRe.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(fillDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatFillDate renders t back to MM/DD/YYYY. Round-trips with
// ParseFillDate for valid inputs.
func FormatFillDate(t time.Time) string {
	return t.Format(fillDateLayout)
}
