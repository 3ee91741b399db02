package organizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"telsuite/pkg/telsum/parser"
)

// Filing accepts dates between these years; anything outside is treated as a
// non-date number (serial IDs, counters) and the next pattern is tried.
const (
	minFilingYear = 2000
	maxFilingYear = 2100
)

// namePatterns are tried in order against the file name. Each pattern
// declares which capture group holds the year and which the month; month
// captures may be numeric or a month name prefix.
var namePatterns = []struct {
	re         *regexp.Regexp
	yearGroup  int
	monthGroup int
}{
	// YYYY-MM-DD
	{regexp.MustCompile(`(\d{4})[-_.](\d{1,2})[-_.](\d{1,2})`), 1, 2},
	// DD-MM-YYYY
	{regexp.MustCompile(`(\d{1,2})[-_.](\d{1,2})[-_.](\d{4})`), 3, 2},
	// YYYYMMDD
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), 1, 2},
	// MonthName-YYYY
	{regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[-_.](\d{4})`), 2, 1},
	// YYYY-MonthName
	{regexp.MustCompile(`(?i)(\d{4})[-_.](jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`), 1, 2},
	// YYYY-MM
	{regexp.MustCompile(`(\d{4})[-_.](\d{1,2})\b`), 1, 2},
	// MM-YYYY
	{regexp.MustCompile(`(\d{1,2})[-_.](\d{4})`), 2, 1},
	// YYYYMM
	{regexp.MustCompile(`(\d{4})(\d{2})\b`), 1, 2},
}

// DateFromFileName extracts a year and month from a file name. Patterns are
// tried most-specific first; a match with an implausible year or month falls
// through to the next pattern.
func DateFromFileName(name string) (int, time.Month, bool) {
	base := filepath.Base(name)
	for _, p := range namePatterns {
		m := p.re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[p.yearGroup])
		if err != nil || year < minFilingYear || year > maxFilingYear {
			continue
		}
		month, ok := parseMonth(m[p.monthGroup])
		if !ok {
			continue
		}
		return year, month, true
	}
	return 0, 0, false
}

// parseMonth accepts a month number or a month name prefix ("Jan",
// "january").
func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	prefix := strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), prefix) {
			return m, true
		}
	}
	return 0, false
}

// deriveDate determines the year and month a workbook belongs to, first from
// its file name, then from the first date-like cell of a detected date
// column in the workbook itself.
func deriveDate(filePath string) (int, time.Month, error) {
	if year, month, ok := DateFromFileName(filePath); ok {
		return year, month, nil
	}
	if year, month, ok := dateFromWorkbook(filePath); ok {
		return year, month, nil
	}
	return 0, 0, fmt.Errorf("could not determine year and month for %s", filepath.Base(filePath))
}

// dateFromWorkbook scans the leading rows of the first worksheet for a value
// in a detected timestamp column that parses as a date.
func dateFromWorkbook(filePath string) (int, time.Month, bool) {
	if err := parser.SniffWorkbook(filePath); err != nil {
		return 0, 0, false
	}
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, 0, false
	}
	tbl, err := parser.ReadTable(f, sheets[0])
	if err != nil {
		return 0, 0, false
	}
	col, ok := parser.DetectTimestampColumn(tbl.Columns)
	if !ok {
		return 0, 0, false
	}
	idx := tbl.ColumnIndex(col)

	// A handful of rows is enough to identify the month.
	limit := len(tbl.Rows)
	if limit > 10 {
		limit = 10
	}
	for r := 0; r < limit; r++ {
		if t, ok := parser.ParseTimestamp(tbl.Cell(r, idx)); ok {
			return t.Year(), t.Month(), true
		}
	}
	return 0, 0, false
}
