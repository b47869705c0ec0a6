package extract

import (
	"testing"

	"github.com/gyeh/rximport/internal/model"
)

func TestParseMedicationString(t *testing.T) {
	cases := []struct {
		in       string
		name     string
		strength string
		form     string
	}{
		{"Cyclobenzaprine 10mg Tablets", "Cyclobenzaprine", "10mg", "tablet"},
		{"Amoxicillin 500 mg Capsules", "Amoxicillin", "500 mg", "capsule"},
		{"Hydrocortisone 2.5mg Cream", "Hydrocortisone", "2.5mg", "cream"},
		{"Insulin 100 units Injection", "Insulin", "100 units", "injection"},
		{"Saline Spray", "Saline", "", "spray"},
		{"Latanoprost Drops", "Latanoprost", "", "drops"},
		{"Lisinopril 20mg", "Lisinopril", "20mg", "tablet"}, // no form, defaults
		{"Aspirin", "Aspirin", "", "tablet"},
		{"Nicotine Patch 21mg", "Nicotine", "21mg", "patch"},
	}
	for _, c := range cases {
		got := ParseMedicationString(c.in)
		if got.Name != c.name || got.Strength != c.strength || got.Form != c.form {
			t.Errorf("ParseMedicationString(%q) = {%q %q %q}, want {%q %q %q}",
				c.in, got.Name, got.Strength, got.Form, c.name, c.strength, c.form)
		}
	}
}

// The parser is total: any input yields a ParsedMedication with a form from
// the fixed vocabulary, never a panic.
func TestParseMedicationString_Total(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"10mg",
		"Tablets",
		"練習 37.5mcg ???",
		"$$$$",
	}
	valid := make(map[string]bool, len(model.AllForms))
	for _, f := range model.AllForms {
		valid[f] = true
	}
	for _, in := range inputs {
		got := ParseMedicationString(in)
		if !valid[got.Form] {
			t.Errorf("ParseMedicationString(%q).Form = %q, not in vocabulary", in, got.Form)
		}
	}
}

func TestParseMedicationString_StrengthOnlyInput(t *testing.T) {
	// When the text starts with the strength there is no preceding name;
	// the whole input survives as the name.
	got := ParseMedicationString("10mg Tablets")
	if got.Name != "10mg Tablets" {
		t.Errorf("name = %q, want full input", got.Name)
	}
	if got.Strength != "10mg" || got.Form != "tablet" {
		t.Errorf("strength/form = %q/%q", got.Strength, got.Form)
	}
}
