// Package models defines data structures shared by the summation engine.
package models

// Table is an in-memory view of a single worksheet: a header row of column
// names followed by data rows. Cells are typed int64, float64 or string.
type Table struct {
	// Columns holds the header row in sheet order.
	Columns []string
	// Rows holds the data rows in sheet order. A row may be shorter than
	// Columns when trailing cells are empty.
	Rows [][]any
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at the given row and column index, or nil when the
// row does not extend that far.
func (t *Table) Cell(row, col int) any {
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}
