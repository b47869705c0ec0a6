package tabular

import "strings"

// Row is one ordered row read from a source file. In header mode Header
// names the columns positionally; in raw mode Header is nil and fields are
// addressed by index. Preamble marks rows that sit above the prescription
// table header in layouts that carry a free-text patient-info preamble.
type Row struct {
	Header   []string
	Fields   []string
	Line     int // 1-based position in the source file
	Preamble bool
}

// Get returns the trimmed value under the named column, matched
// case-insensitively against trimmed header names. Empty string when the
// column is absent or the row has no header.
func (r Row) Get(col string) string {
	for i, h := range r.Header {
		if strings.EqualFold(strings.TrimSpace(h), col) && i < len(r.Fields) {
			return strings.TrimSpace(r.Fields[i])
		}
	}
	return ""
}

// First returns the trimmed leading field.
func (r Row) First() string {
	if len(r.Fields) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Fields[0])
}

// IsEmpty reports whether every field is blank.
func (r Row) IsEmpty() bool {
	for _, f := range r.Fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Text reconstructs the row as a single line with trailing delimiter noise
// stripped. Preamble lines from spreadsheet exports tend to carry a tail of
// empty cells.
func (r Row) Text() string {
	s := strings.Join(r.Fields, ",")
	s = strings.TrimRight(s, ", \t")
	return strings.TrimSpace(s)
}
