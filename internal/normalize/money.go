package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParseMoneyCents parses a price string like "$12.34" into integer cents.
// Uses math.Round to avoid truncation bias. Unparseable or negative values
// come back as 0; imported prices default to zero rather than erroring.
func ParseMoneyCents(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(math.Round(v * 100))
}

// ParseQuantity parses a pill count. Unparseable or negative values come
// back as 0.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
