package telsum

import (
	"fmt"

	"telsuite/pkg/telsum/parser"
)

// ErrFileNotFound indicates the input workbook does not exist.
var ErrFileNotFound = parser.ErrFileNotFound

// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
var ErrInvalidFormat = parser.ErrInvalidFormat

// SheetError records a failure on an individual worksheet. Sheet errors are
// collected, not fatal: aggregation continues with the remaining sheets.
type SheetError struct {
	Sheet string
	Op    string // "read", "analyze"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.Sheet, e.Op, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
