// Package parser provides worksheet reading and column detection utilities.
package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"telsuite/pkg/telsum/models"
)

// ReadTable reads a full worksheet into a Table via the streaming row
// iterator, so malformed cells surface as errors instead of being dropped.
// The first non-blank row is taken as the header; remaining rows become data
// rows with cells coerced to int64, float64 or string.
func ReadTable(f *excelize.File, sheetName string) (*models.Table, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tbl := &models.Table{}
	header := false
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if !header {
			tbl.Columns = row
			header = true
			continue
		}
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = parseValue(v)
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// ReadHeader reads only the header row of a worksheet, using the streaming
// row iterator so large sheets are not loaded for a presence check.
func ReadHeader(f *excelize.File, sheetName string) ([]string, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	return rows.Columns()
}

// parseValue attempts to parse a cell string as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Numeric reports the float64 value of a cell and whether the cell was
// numeric at all. Text and empty cells are not numeric.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
