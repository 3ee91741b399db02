package models

// Result reports the outcome of an aggregation run.
type Result struct {
	// ProcessedGroups is the number of groups written to the output workbook.
	ProcessedGroups int `json:"processed_groups"`
	// TotalGroups is the number of groups found in the source workbook.
	TotalGroups int `json:"total_groups"`
	// OutputPath is the written workbook path, empty when no group produced
	// any qualifying data and no file was written.
	OutputPath string `json:"output_path"`
	// SheetErrors lists worksheets that failed to read, with messages.
	SheetErrors []string `json:"sheet_errors,omitempty"`
}
