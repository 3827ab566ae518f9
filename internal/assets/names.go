package assets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedNames is returned for name tables with an unknown file extension.
var ErrUnsupportedNames = errors.New("unsupported name table format")

// NameParser turns a name table file into an identifier -> display name map.
type NameParser interface {
	Parse(data []byte) (map[string]string, error)
}

// NewNameParser returns the parser matching the extension of filename.
// Legacy BIFF .xls workbooks are not readable and report ErrUnsupportedNames.
func NewNameParser(filename string) (NameParser, error) {
	ext := strings.ToLower(path.Ext(filename))

	switch ext {
	case ".csv":
		return CSVNameParser{}, nil
	case ".xlsx":
		return XLSXNameParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNames, ext)
	}
}

// CSVNameParser reads "id,name" rows.
type CSVNameParser struct{}

// Parse implements NameParser.
func (CSVNameParser) Parse(data []byte) (map[string]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv names: %w", err)
	}
	return namesFromRows(rows), nil
}

// XLSXNameParser reads the first sheet of a workbook with the same layout as the CSV table.
type XLSXNameParser struct{}

// Parse implements NameParser.
func (XLSXNameParser) Parse(data []byte) (map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx names: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx names: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx names: read sheet %q: %w", sheets[0], err)
	}
	return namesFromRows(rows), nil
}

// namesFromRows keeps rows whose first column is numeric; header rows fall out naturally.
func namesFromRows(rows [][]string) map[string]string {
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if !isNumeric(id) {
			continue
		}
		names[PadID(id)] = strings.TrimSpace(row[1])
	}
	return names
}
