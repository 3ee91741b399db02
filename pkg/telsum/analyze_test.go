package telsum

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")

	buildWorkbook(t, input, []sheetSpec{
		{
			name:   "VM ACCRA1",
			header: []string{"Time Stamp", "Raw"},
			rows:   [][]any{{"T1", 1}},
		},
		{
			// Missing the Raw column.
			name:   "VM ACCRA2",
			header: []string{"Time Stamp", "Value"},
			rows:   [][]any{{"T1", 2}},
		},
		{
			// Missing a timestamp column.
			name:   "VM Afienya",
			header: []string{"Label", "Raw"},
			rows:   [][]any{{"x", 3}},
		},
	})

	analysis, err := Analyze(input, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.TotalSheets != 3 {
		t.Errorf("TotalSheets = %d, want 3", analysis.TotalSheets)
	}
	if got := analysis.Groups.Keys(); !reflect.DeepEqual(got, []string{"VM ACC", "VM Afi"}) {
		t.Errorf("group keys = %v", got)
	}

	sa := analysis.Sheets["VM ACCRA1"]
	if !sa.Processable || sa.TimestampColumn != "Time Stamp" {
		t.Errorf("VM ACCRA1 analysis = %+v, want processable with Time Stamp", sa)
	}
	if sa := analysis.Sheets["VM ACCRA2"]; sa.Processable || len(sa.ValueColumns) != 0 {
		t.Errorf("VM ACCRA2 analysis = %+v, want unprocessable (no Raw)", sa)
	}
	if sa := analysis.Sheets["VM Afienya"]; sa.Processable || sa.TimestampColumn != "" {
		t.Errorf("VM Afienya analysis = %+v, want unprocessable (no timestamp)", sa)
	}

	// VM ACC has one processable member; VM Afi has none.
	if analysis.ProcessableGroups != 1 {
		t.Errorf("ProcessableGroups = %d, want 1", analysis.ProcessableGroups)
	}
}

func TestAnalyzeExplicitColumns(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")

	buildWorkbook(t, input, []sheetSpec{
		{
			name:   "SiteA-1",
			header: []string{"Epoch", "Power", "Voltage"},
			rows:   [][]any{{"T1", 1, 2}},
		},
	})

	analysis, err := Analyze(input, Options{
		PrefixLength:    5,
		ValueColumns:    []string{"Power", "Voltage", "Current"},
		TimestampColumn: "Epoch",
		TrackSources:    true,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	sa := analysis.Sheets["SiteA-1"]
	if !sa.Processable {
		t.Fatalf("sheet should be processable: %+v", sa)
	}
	if !reflect.DeepEqual(sa.ValueColumns, []string{"Power", "Voltage"}) {
		t.Errorf("ValueColumns = %v, want present subset [Power Voltage]", sa.ValueColumns)
	}
	if sa.TimestampColumn != "Epoch" {
		t.Errorf("TimestampColumn = %q, want Epoch", sa.TimestampColumn)
	}
}

func TestAnalyzeExplicitTimestampAbsent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")

	buildWorkbook(t, input, []sheetSpec{
		{
			name:   "SiteA-1",
			header: []string{"Time Stamp", "Raw"},
			rows:   [][]any{{"T1", 1}},
		},
	})

	// An explicitly named timestamp column that the sheet lacks makes the
	// sheet unprocessable even though auto-detection would have found one.
	analysis, err := Analyze(input, Options{PrefixLength: 5, TimestampColumn: "Epoch"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if sa := analysis.Sheets["SiteA-1"]; sa.Processable {
		t.Errorf("sheet should not be processable: %+v", sa)
	}
	if analysis.ProcessableGroups != 0 {
		t.Errorf("ProcessableGroups = %d, want 0", analysis.ProcessableGroups)
	}
}

func TestAnalyzeRecordsUnreadableSheet(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.xlsx")

	buildWorkbook(t, input, []sheetSpec{
		{
			name:   "SiteA-1",
			header: []string{"Time Stamp", "Raw"},
			rows:   [][]any{{"T1", 5}},
		},
		{
			name:   "SiteB-1",
			header: []string{"Time Stamp", "Raw"},
			rows:   [][]any{{"T1", 7}},
		},
	})
	corruptSheetEntry(t, input, "xl/worksheets/sheet2.xml")

	analysis, err := Analyze(input, Options{PrefixLength: 5})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	sa := analysis.Sheets["SiteB-1"]
	if sa.Processable || sa.Err == "" {
		t.Errorf("SiteB-1 analysis = %+v, want unprocessable with error recorded", sa)
	}
	if sa := analysis.Sheets["SiteA-1"]; !sa.Processable {
		t.Errorf("SiteA-1 analysis = %+v, want processable", sa)
	}
	if analysis.ProcessableGroups != 1 {
		t.Errorf("ProcessableGroups = %d, want 1", analysis.ProcessableGroups)
	}
}
