package telsum

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"telsuite/pkg/telsum/models"
	"telsuite/pkg/telsum/parser"
)

// Analyze previews an aggregation run without processing any data: it
// computes the group partition and, for each worksheet, whether the required
// value columns and a timestamp column are present. Only header rows are
// read. Sheets that fail to read are marked unprocessable with the failure
// message recorded.
func Analyze(workbookPath string, opts Options) (*models.Analysis, error) {
	opts = opts.withDefaults()

	if err := parser.SniffWorkbook(workbookPath); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	analysis := &models.Analysis{
		Groups:      GroupSheets(names, opts.PrefixLength),
		Sheets:      make(map[string]*models.SheetAnalysis, len(names)),
		TotalSheets: len(names),
	}

	for _, name := range names {
		sa := &models.SheetAnalysis{}
		analysis.Sheets[name] = sa

		header, err := parser.ReadHeader(f, name)
		if err != nil {
			sa.Err = (&SheetError{Sheet: name, Op: "analyze", Err: err}).Error()
			log.Warn().Str("sheet", name).Err(err).Msg("Could not inspect sheet")
			continue
		}

		tbl := &models.Table{Columns: header}
		for _, vc := range opts.ValueColumns {
			if tbl.ColumnIndex(vc) >= 0 {
				sa.ValueColumns = append(sa.ValueColumns, vc)
			}
		}
		if opts.TimestampColumn != "" {
			if tbl.ColumnIndex(opts.TimestampColumn) >= 0 {
				sa.TimestampColumn = opts.TimestampColumn
			}
		} else if detected, ok := parser.DetectTimestampColumn(header); ok {
			sa.TimestampColumn = detected
		}
		sa.Processable = len(sa.ValueColumns) >= requiredValueColumns(opts) &&
			sa.TimestampColumn != ""
	}

	for _, key := range analysis.Groups.Keys() {
		for _, member := range analysis.Groups.Members(key) {
			if sa := analysis.Sheets[member]; sa != nil && sa.Processable {
				analysis.ProcessableGroups++
				break
			}
		}
	}
	return analysis, nil
}
