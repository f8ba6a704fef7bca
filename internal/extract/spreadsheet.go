package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows caps legacy .xls decoding; the BIFF format itself tops out at
// 65536 rows per sheet.
const maxXLSRows = 65536

var spreadsheetExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// IsSpreadsheet reports whether the filename has a spreadsheet extension and
// should be parsed locally instead of being sent to the document model.
func IsSpreadsheet(filename string) bool {
	return spreadsheetExts[strings.ToLower(filepath.Ext(filename))]
}

// ParseRows decodes the first sheet of a spreadsheet upload into raw string
// rows, header row included.
func ParseRows(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rows, nil

	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("read xlsx rows: %w", err)
		}
		return rows, nil

	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("open xls: %w", err)
		}
		return wb.ReadAllCells(maxXLSRows), nil
	}
	return nil, fmt.Errorf("unsupported spreadsheet type %q", filepath.Ext(filename))
}
