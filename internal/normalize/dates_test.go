package normalize

import "testing"

func TestParseFillDate_RoundTrip(t *testing.T) {
	inputs := []string{"09/08/2025", "01/14/1971", "12/31/1999", "02/29/2024"}
	for _, in := range inputs {
		d, ok := ParseFillDate(in)
		if !ok {
			t.Fatalf("ParseFillDate(%q) rejected valid date", in)
		}
		if got := FormatFillDate(d); got != in {
			t.Errorf("round trip %q: got %q", in, got)
		}
	}
}

func TestParseFillDate_Components(t *testing.T) {
	d, ok := ParseFillDate("09/08/2025")
	if !ok {
		t.Fatal("expected valid date")
	}
	if d.Year() != 2025 || int(d.Month()) != 9 || d.Day() != 8 {
		t.Errorf("components = %d-%d-%d, want 2025-9-8", d.Year(), d.Month(), d.Day())
	}
}

func TestParseFillDate_Rejects(t *testing.T) {
	bad := []string{
		"",
		"9/8/2025",      // single-digit month and day
		"2025-09-08",    // ISO
		"13/01/2025",    // impossible month
		"02/30/2025",    // impossible day
		"09/08/25",      // two-digit year
		"Fill Date",     // header label
		"09/08/2025 ok", // trailing junk
	}
	for _, in := range bad {
		if _, ok := ParseFillDate(in); ok {
			t.Errorf("ParseFillDate(%q) accepted, want reject", in)
		}
	}
}

func TestIsStrictDate(t *testing.T) {
	if !IsStrictDate(" 01/14/1971 ") {
		t.Error("trimmed strict date should match")
	}
	if IsStrictDate("1/14/1971") {
		t.Error("loose date should not match")
	}
}
