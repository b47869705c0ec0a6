package extract

import (
	"strings"

	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/tabular"
)

// Trailer rows that close out a Walgreens export, matched against the
// leading field by case-insensitive prefix.
var walgreensTrailers = []string{
	"Total",
	"Generics Saved You",
	"Insurance Saved You",
	"Thank you for being a Walgreens customer",
	"Please note",
}

// WalgreensIter yields validated prescription fill records from the rows
// below the table header. Single pass, not restartable.
type WalgreensIter struct {
	rows   []tabular.Row
	header []string
	next   int
}

// WalgreensRecords returns an iterator over the prescription table starting
// just below headerIdx. A negative headerIdx (no table found) yields an
// empty iterator.
func WalgreensRecords(rows []tabular.Row, headerIdx int) *WalgreensIter {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return &WalgreensIter{}
	}
	return &WalgreensIter{
		rows:   rows,
		header: rows[headerIdx].Fields,
		next:   headerIdx + 1,
	}
}

// Next returns the next accepted record. Rows that fail validation are
// structurally not prescription rows (subtotals, footers, stray duplicated
// headers) and are dropped silently.
func (it *WalgreensIter) Next() (model.PrescriptionFillRecord, bool) {
	for it.next < len(it.rows) {
		r := it.rows[it.next]
		it.next++

		first := r.First()
		if first == "" || isTrailer(first) {
			continue
		}

		r.Header = it.header
		rec, ok := walgreensRecord(r)
		if ok {
			return rec, true
		}
	}
	return model.PrescriptionFillRecord{}, false
}

func isTrailer(first string) bool {
	l := strings.ToLower(first)
	for _, t := range walgreensTrailers {
		if strings.HasPrefix(l, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// walgreensRecord validates one table row. Accepted only when the fill date
// strictly matches MM/DD/YYYY, the medication field is non-empty, and
// neither field is a re-read header label (duplicated header rows have been
// seen in real exports).
func walgreensRecord(r tabular.Row) (model.PrescriptionFillRecord, bool) {
	fill := r.Get("Fill Date")
	med := r.Get("Prescription")

	if med == "" || med == "Prescription" || fill == headerToken {
		return model.PrescriptionFillRecord{}, false
	}
	fillDate, ok := normalize.ParseFillDate(fill)
	if !ok {
		return model.PrescriptionFillRecord{}, false
	}

	return model.PrescriptionFillRecord{
		Medication:         ParseMedicationString(med),
		FillDate:           fillDate,
		Quantity:           normalize.ParseQuantity(r.Get("Qty")),
		Prescriber:         r.Get("Prescriber"),
		PrescriptionNumber: r.Get("Rx #"),
		PriceCents:         normalize.ParseMoneyCents(r.Get("Price")),
		NDC:                r.Get("NDC#"),
		SourceRow:          r.Line,
	}, true
}
