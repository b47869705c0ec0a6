package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFileType is returned for file extensions the reader does
// not know how to open.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// walgreensHeaderToken is the leading cell of the prescription table header
// in Walgreens exports. Raw-mode reads use it to tag preamble rows.
const walgreensHeaderToken = "Fill Date"

// Read opens the file at path and returns its rows in raw positional mode
// (no header attached). The reader is selected by extension: .csv for
// delimited text, .xlsx for spreadsheets (first sheet only). Rows above a
// "Fill Date" table header, if one exists, are tagged as preamble.
func Read(path string) ([]Row, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Fields: rec, Line: i + 1}
	}
	tagPreamble(rows)
	return rows, nil
}

// WithHeader reinterprets raw rows as a standard table: the first row
// becomes the header for every following row. Returns nil when there are no
// data rows.
func WithHeader(rows []Row) []Row {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0].Fields
	out := make([]Row, 0, len(rows)-1)
	for _, r := range rows[1:] {
		r.Header = header
		out = append(out, r)
	}
	return out
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("read xlsx %s: no sheets", path)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s sheet %s: %w", path, sheet, err)
	}
	return records, nil
}

// tagPreamble marks every non-empty row above the first table-header row.
// Files without a recognizable table header are left untagged.
func tagPreamble(rows []Row) {
	headerIdx := -1
	for i := range rows {
		if rows[i].First() == walgreensHeaderToken {
			headerIdx = i
			break
		}
	}
	if headerIdx <= 0 {
		return
	}
	for i := 0; i < headerIdx; i++ {
		if !rows[i].IsEmpty() {
			rows[i].Preamble = true
		}
	}
}
