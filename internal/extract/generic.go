package extract

import (
	"strings"
	"time"

	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/tabular"
)

// Column-name fragments that qualify a field as the medication string in
// unknown export shapes.
var genericMedicationColumns = []string{"medication", "prescription", "drug", "medicine"}

// GenericIter scans arbitrary header+data tables for anything that looks
// like a medication column. Rows with no qualifying field are skipped
// without error. Single pass.
type GenericIter struct {
	rows      []tabular.Row
	next      int
	fallback  time.Time
	defaulted int
}

// GenericRecords returns an iterator over rows in first-row-is-header mode.
// Rows lacking a parsable fill date take fallbackDate; DefaultedDates
// reports how many did.
func GenericRecords(rows []tabular.Row, fallbackDate time.Time) *GenericIter {
	return &GenericIter{rows: tabular.WithHeader(rows), fallback: fallbackDate}
}

// DefaultedDates returns the number of emitted records that fell back to
// the import date. Meaningful once iteration finishes.
func (it *GenericIter) DefaultedDates() int {
	return it.defaulted
}

func (it *GenericIter) Next() (model.PrescriptionFillRecord, bool) {
	for it.next < len(it.rows) {
		r := it.rows[it.next]
		it.next++

		med := firstMedicationField(r)
		if med == "" {
			continue
		}

		fillDate, found := dateField(r)
		if !found {
			fillDate = it.fallback
			it.defaulted++
		}

		return model.PrescriptionFillRecord{
			Medication: ParseMedicationString(med),
			FillDate:   fillDate,
			Quantity:   normalize.ParseQuantity(firstFieldNamed(r, "qty", "quantity")),
			Prescriber: firstFieldNamed(r, "prescriber", "doctor"),
			PriceCents: normalize.ParseMoneyCents(firstFieldNamed(r, "price", "cost")),
			SourceRow:  r.Line,
		}, true
	}
	return model.PrescriptionFillRecord{}, false
}

// firstMedicationField returns the first non-empty value under a column
// whose name contains one of the medication fragments.
func firstMedicationField(r tabular.Row) string {
	for i, h := range r.Header {
		if i >= len(r.Fields) {
			break
		}
		name := strings.ToLower(h)
		for _, frag := range genericMedicationColumns {
			if strings.Contains(name, frag) {
				if v := strings.TrimSpace(r.Fields[i]); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// dateField returns the first strict MM/DD/YYYY value under a column whose
// name contains "date".
func dateField(r tabular.Row) (time.Time, bool) {
	for i, h := range r.Header {
		if i >= len(r.Fields) {
			break
		}
		if strings.Contains(strings.ToLower(h), "date") {
			if t, ok := normalize.ParseFillDate(r.Fields[i]); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// firstFieldNamed returns the first non-empty value under a column whose
// name contains any of the fragments.
func firstFieldNamed(r tabular.Row, fragments ...string) string {
	for i, h := range r.Header {
		if i >= len(r.Fields) {
			break
		}
		name := strings.ToLower(h)
		for _, frag := range fragments {
			if strings.Contains(name, frag) {
				if v := strings.TrimSpace(r.Fields[i]); v != "" {
					return v
				}
			}
		}
	}
	return ""
}
