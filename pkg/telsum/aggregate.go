package telsum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"telsuite/pkg/telsum/models"
	"telsuite/pkg/telsum/parser"
)

// TimestampColumn is the canonical label the detected or supplied timestamp
// column is renamed to in the output.
const TimestampColumn = "Timestamp"

// SourceColumn is the provenance column added when Options.TrackSources is
// set.
const SourceColumn = "Source_Sheet"

// maxSheetTitle is Excel's worksheet name length limit.
const maxSheetTitle = 31

// Aggregate reads the workbook at workbookPath, groups its worksheets by
// name prefix, concatenates the timestamp and value columns of each group's
// qualifying sheets, sorts by timestamp, optionally collapses rows sharing a
// timestamp, and writes one output sheet per non-empty group to outputPath.
//
// A sheet qualifies when its value columns are present (all of them, or at
// least one when Options.TrackSources is set) and a timestamp column is
// resolvable. Unreadable sheets are recorded and skipped; only
// workbook-level failures abort the run. When no group produces any rows, no
// output file is written and the returned Result reports zero processed
// groups.
func Aggregate(workbookPath, outputPath string, opts Options) (*models.Result, error) {
	opts = opts.withDefaults()

	if err := parser.SniffWorkbook(workbookPath); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	groups := GroupSheets(f.GetSheetList(), opts.PrefixLength)
	result := &models.Result{TotalGroups: groups.Len()}

	out := excelize.NewFile()
	defer out.Close()
	written := 0

	for _, key := range groups.Keys() {
		frame := newGroupFrame(opts)
		for _, sheet := range groups.Members(key) {
			tbl, err := parser.ReadTable(f, sheet)
			if err != nil {
				serr := &SheetError{Sheet: sheet, Op: "read", Err: err}
				log.Warn().Str("sheet", sheet).Err(err).Msg("Skipping unreadable sheet")
				result.SheetErrors = append(result.SheetErrors, serr.Error())
				continue
			}
			frame.appendSheet(tbl, sheet, opts)
		}
		if len(frame.rows) == 0 {
			continue
		}

		frame.sortByTimestamp()
		if opts.Mode == ModeSum {
			frame.collapse(opts)
		}

		title := sheetTitle(key)
		if err := writeGroupSheet(out, title, frame, written == 0); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", title, err)
		}
		written++
	}

	result.ProcessedGroups = written
	if written == 0 {
		log.Warn().Str("workbook", workbookPath).
			Msg("No qualifying data in any group; no output written")
		return result, nil
	}

	if err := out.SaveAs(outputPath); err != nil {
		return nil, fmt.Errorf("save output workbook: %w", err)
	}
	result.OutputPath = outputPath

	log.Info().
		Int("processed_groups", result.ProcessedGroups).
		Int("total_groups", result.TotalGroups).
		Str("output", outputPath).
		Msg("Aggregation complete")
	return result, nil
}

// groupFrame accumulates the projected rows of one sheet group. Columns are
// fixed per run: Timestamp, the value columns, then the optional provenance
// column. Cells of value columns absent from a contributing sheet are nil.
type groupFrame struct {
	columns []string
	rows    [][]any
}

func newGroupFrame(opts Options) *groupFrame {
	columns := append([]string{TimestampColumn}, opts.ValueColumns...)
	if opts.TrackSources {
		columns = append(columns, SourceColumn)
	}
	return &groupFrame{columns: columns}
}

// appendSheet projects a worksheet onto the frame columns and appends its
// rows in sheet order. Without source tracking every value column must be
// present; with source tracking one suffices and the missing ones yield nil
// cells. Sheets below that bar, or without a resolvable timestamp column,
// contribute nothing.
func (g *groupFrame) appendSheet(tbl *models.Table, sheet string, opts Options) {
	present := 0
	valIdx := make([]int, len(opts.ValueColumns))
	for i, vc := range opts.ValueColumns {
		valIdx[i] = tbl.ColumnIndex(vc)
		if valIdx[i] >= 0 {
			present++
		}
	}
	if present < requiredValueColumns(opts) {
		return
	}

	tsCol := opts.TimestampColumn
	if tsCol == "" {
		detected, ok := parser.DetectTimestampColumn(tbl.Columns)
		if !ok {
			return
		}
		tsCol = detected
	}
	tsIdx := tbl.ColumnIndex(tsCol)
	if tsIdx < 0 {
		return
	}

	for r := range tbl.Rows {
		row := make([]any, 0, len(g.columns))
		row = append(row, tbl.Cell(r, tsIdx))
		for _, idx := range valIdx {
			if idx < 0 {
				row = append(row, nil)
			} else {
				row = append(row, tbl.Cell(r, idx))
			}
		}
		if opts.TrackSources {
			row = append(row, sheet)
		}
		g.rows = append(g.rows, row)
	}
}

// sortByTimestamp orders rows by ascending timestamp. The sort is stable:
// rows sharing a timestamp keep their concatenation order.
func (g *groupFrame) sortByTimestamp() {
	type keyed struct {
		key tsKey
		row []any
	}
	ks := make([]keyed, len(g.rows))
	for i, row := range g.rows {
		ks[i] = keyed{key: timestampKey(row[0]), row: row}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return lessTimestamp(ks[i].key, ks[j].key)
	})
	for i := range ks {
		g.rows[i] = ks[i].row
	}
}

// collapse merges rows sharing an identical timestamp cell value, summing
// each value column. Non-numeric and missing cells contribute nothing to a
// sum. Provenance becomes the comma-joined set of contributing sheets in
// first-seen order.
func (g *groupFrame) collapse(opts Options) {
	type agg struct {
		ts      any
		sums    []float64
		sources []string
		seen    map[string]bool
	}

	var order []*agg
	byTS := make(map[any]*agg)

	srcIdx := -1
	if opts.TrackSources {
		srcIdx = len(g.columns) - 1
	}

	for _, row := range g.rows {
		a, ok := byTS[row[0]]
		if !ok {
			a = &agg{
				ts:   row[0],
				sums: make([]float64, len(opts.ValueColumns)),
				seen: make(map[string]bool),
			}
			byTS[row[0]] = a
			order = append(order, a)
		}
		for i := range opts.ValueColumns {
			if n, ok := parser.Numeric(row[1+i]); ok {
				a.sums[i] += n
			}
		}
		if srcIdx >= 0 {
			if src, _ := row[srcIdx].(string); src != "" && !a.seen[src] {
				a.seen[src] = true
				a.sources = append(a.sources, src)
			}
		}
	}

	rows := make([][]any, 0, len(order))
	for _, a := range order {
		row := make([]any, 0, len(g.columns))
		row = append(row, a.ts)
		for _, s := range a.sums {
			row = append(row, s)
		}
		if srcIdx >= 0 {
			row = append(row, strings.Join(a.sources, ", "))
		}
		rows = append(rows, row)
	}
	g.rows = rows
}

// sheetTitle truncates a group key to Excel's worksheet name limit.
func sheetTitle(key string) string {
	if runes := []rune(key); len(runes) > maxSheetTitle {
		return string(runes[:maxSheetTitle])
	}
	return key
}

// writeGroupSheet writes a frame as one worksheet: header row, then data
// rows. The first group takes over the workbook's default sheet so the
// output carries no empty leftover sheet.
func writeGroupSheet(out *excelize.File, title string, frame *groupFrame, first bool) error {
	if first {
		if current := out.GetSheetName(0); current != title {
			if err := out.SetSheetName(current, title); err != nil {
				return err
			}
		}
	} else {
		if _, err := out.NewSheet(title); err != nil {
			return err
		}
	}

	header := make([]any, len(frame.columns))
	for i, c := range frame.columns {
		header[i] = c
	}
	if err := out.SetSheetRow(title, "A1", &header); err != nil {
		return err
	}
	for i, row := range frame.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := out.SetSheetRow(title, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
