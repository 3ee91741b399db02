package models

// SheetAnalysis describes whether a single worksheet qualifies for
// aggregation.
type SheetAnalysis struct {
	// ValueColumns lists the requested value columns present on the sheet.
	ValueColumns []string `json:"value_columns"`
	// TimestampColumn is the resolved timestamp column name, empty when none
	// was found.
	TimestampColumn string `json:"timestamp_column,omitempty"`
	// Processable reports whether the sheet has at least one value column and
	// a timestamp column.
	Processable bool `json:"processable"`
	// Err carries the read failure message when the sheet could not be
	// inspected.
	Err string `json:"error,omitempty"`
}

// Analysis is the preview of an aggregation run: the group partition plus
// per-sheet qualification flags.
type Analysis struct {
	Groups      *SheetGroups
	Sheets      map[string]*SheetAnalysis
	TotalSheets int
	// ProcessableGroups counts groups containing at least one processable
	// worksheet.
	ProcessableGroups int
}
