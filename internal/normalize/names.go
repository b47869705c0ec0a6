package normalize

import "strings"

// SplitName splits a full name on whitespace: first token becomes the first
// name, last token the last name. A single-token name yields an empty last
// name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[len(parts)-1]
	}
}
