package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrFileNotFound indicates the input workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid workbook format")

// xlsxSignature is the ZIP local file header all OOXML workbooks start with.
var xlsxSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// oleSignature is the legacy OLE compound document header (.xls).
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DetectTimestampColumn returns the first column whose name contains "time"
// or "date", case-insensitively. The second return is false when no column
// matches; callers treat that as "sheet not processable", not as an error.
func DetectTimestampColumn(columns []string) (string, bool) {
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "time") || strings.Contains(lower, "date") {
			return col, true
		}
	}
	return "", false
}

// SniffWorkbook verifies that path exists and carries an OOXML workbook
// signature. Legacy OLE files and anything else are rejected before any
// parsing starts.
func SniffWorkbook(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, _ := f.Read(header)
	header = header[:n]

	if bytes.HasPrefix(header, xlsxSignature) {
		return nil
	}
	if bytes.HasPrefix(header, oleSignature) {
		return fmt.Errorf("%w: legacy .xls workbooks are not supported", ErrInvalidFormat)
	}
	return fmt.Errorf("%w: %s", ErrInvalidFormat, path)
}
