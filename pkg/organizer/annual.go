package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"telsuite/pkg/telsum/parser"
)

// ProcessFunc aggregates one stored workbook into a workbook at outputPath.
// It may decline to write outputPath when the file has no qualifying data.
type ProcessFunc func(filePath, outputPath string) error

// Annual report column labels added to every combined row.
const (
	modelColumn    = "Model"
	monthColumn    = "Month"
	monthNumColumn = "MonthNum"
)

// AnnualReport combines a year's stored files into a single report workbook.
// Each stored file is run through process into a temporary workbook; every
// sheet of that workbook is read back with its rows tagged by model (the
// sheet name), month name and month number. The combined rows go to an
// Annual_Summary sheet, and a Months_Included sheet lists the months and
// file counts that contributed.
//
// An empty outputPath defaults to {base}/{year}/Annual_Report_{year}.xlsx.
// An existing report is backed up to <path>.bak before being replaced. When
// no stored file yields data, no report is written and the returned path is
// empty.
func (o *Organizer) AnnualReport(year int, outputPath string, process ProcessFunc) (string, error) {
	files, err := o.ListYear(year)
	if err != nil {
		return "", err
	}
	if outputPath == "" {
		outputPath = filepath.Join(o.BaseDir, fmt.Sprint(year), fmt.Sprintf("Annual_Report_%d.xlsx", year))
	}

	summary := newAnnualTable()
	monthFiles := make(map[time.Month]int)

	for m := time.January; m <= time.December; m++ {
		for _, file := range files[m] {
			added, err := o.collectFile(file, m, process, summary)
			if err != nil {
				log.Warn().Str("file", filepath.Base(file)).Err(err).Msg("Skipping file in annual report")
				continue
			}
			if added {
				monthFiles[m]++
			}
		}
	}

	if len(summary.rows) == 0 {
		log.Warn().Int("year", year).Msg("No data found for year; no report written")
		return "", nil
	}

	if _, err := os.Stat(outputPath); err == nil {
		backup := outputPath + ".bak"
		if err := copyFile(outputPath, backup); err != nil {
			log.Warn().Str("backup", backup).Err(err).Msg("Could not back up existing report")
		} else {
			log.Info().Str("backup", backup).Msg("Backed up existing report")
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	if err := writeAnnualReport(outputPath, summary, monthFiles); err != nil {
		return "", err
	}
	log.Info().Int("year", year).Int("rows", len(summary.rows)).Str("output", outputPath).
		Msg("Annual report written")
	return outputPath, nil
}

// collectFile aggregates one stored workbook into a temporary file and folds
// its sheets into the summary table. Returns whether any rows were added.
func (o *Organizer) collectFile(file string, month time.Month, process ProcessFunc, summary *annualTable) (bool, error) {
	tmp := filepath.Join(filepath.Dir(file), "temp_"+filepath.Base(file))
	defer os.Remove(tmp)

	if err := process(file, tmp); err != nil {
		return false, err
	}
	if _, err := os.Stat(tmp); err != nil {
		// The processor declined to write: nothing qualified.
		return false, nil
	}

	f, err := excelize.OpenFile(tmp)
	if err != nil {
		return false, err
	}
	defer f.Close()

	added := false
	for _, sheet := range f.GetSheetList() {
		tbl, err := parser.ReadTable(f, sheet)
		if err != nil {
			return added, err
		}
		for r := range tbl.Rows {
			cells := make(map[string]any, len(tbl.Columns)+3)
			for c, col := range tbl.Columns {
				cells[col] = tbl.Cell(r, c)
			}
			if _, ok := cells[modelColumn]; !ok {
				cells[modelColumn] = sheet
			}
			cells[monthColumn] = month.String()
			cells[monthNumColumn] = int64(month)
			summary.add(tbl.Columns, cells)
			added = true
		}
	}
	return added, nil
}

// annualTable accumulates rows with a growing union of columns. Data columns
// keep first-seen order; the tag columns always render last.
type annualTable struct {
	columns []string
	seen    map[string]bool
	rows    []map[string]any
}

func newAnnualTable() *annualTable {
	return &annualTable{seen: map[string]bool{
		modelColumn:    true,
		monthColumn:    true,
		monthNumColumn: true,
	}}
}

func (t *annualTable) add(columns []string, cells map[string]any) {
	for _, col := range columns {
		if !t.seen[col] {
			t.seen[col] = true
			t.columns = append(t.columns, col)
		}
	}
	t.rows = append(t.rows, cells)
}

func (t *annualTable) header() []string {
	return append(append([]string{}, t.columns...), modelColumn, monthColumn, monthNumColumn)
}

func writeAnnualReport(outputPath string, summary *annualTable, monthFiles map[time.Month]int) error {
	out := excelize.NewFile()
	defer out.Close()

	const summarySheet = "Annual_Summary"
	if err := out.SetSheetName(out.GetSheetName(0), summarySheet); err != nil {
		return err
	}

	header := summary.header()
	headerRow := make([]any, len(header))
	for i, c := range header {
		headerRow[i] = c
	}
	if err := out.SetSheetRow(summarySheet, "A1", &headerRow); err != nil {
		return err
	}
	for i, cells := range summary.rows {
		row := make([]any, len(header))
		for c, col := range header {
			row[c] = cells[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := out.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	const monthsSheet = "Months_Included"
	if _, err := out.NewSheet(monthsSheet); err != nil {
		return err
	}
	monthsHeader := []any{monthColumn, monthNumColumn, "Files Processed"}
	if err := out.SetSheetRow(monthsSheet, "A1", &monthsHeader); err != nil {
		return err
	}
	rowNum := 2
	for m := time.January; m <= time.December; m++ {
		count, ok := monthFiles[m]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := []any{m.String(), int64(m), count}
		if err := out.SetSheetRow(monthsSheet, cell, &row); err != nil {
			return err
		}
		rowNum++
	}

	if err := out.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save annual report: %w", err)
	}
	return nil
}
