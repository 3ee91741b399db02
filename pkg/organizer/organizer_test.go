package organizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStoreExplicitDate(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeFile(t, filepath.Join(base, "report.xlsx"))
	dest, err := org.Store(src, StoreOptions{Year: 2023, Month: time.July})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	want := filepath.Join(org.BaseDir, "2023", "07_July", "report.xlsx")
	if dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	// Copy by default: the source stays.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should remain after copy: %v", err)
	}
}

func TestStoreDuplicateSkipped(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeFile(t, filepath.Join(base, "report.xlsx"))
	opts := StoreOptions{Year: 2023, Month: time.July}
	first, err := org.Store(src, opts)
	if err != nil {
		t.Fatalf("first Store failed: %v", err)
	}

	// Storing the same name again is skipped deterministically, returning
	// the existing destination.
	second, err := org.Store(src, opts)
	if !errors.Is(err, ErrAlreadyStored) {
		t.Fatalf("expected ErrAlreadyStored, got %v", err)
	}
	if second != first {
		t.Errorf("skip should return existing path %q, got %q", first, second)
	}

	entries, err := os.ReadDir(filepath.Dir(first))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one stored file, found %d", len(entries))
	}
}

func TestStoreMove(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeFile(t, filepath.Join(base, "report.xlsx"))
	if _, err := org.Store(src, StoreOptions{Year: 2023, Month: time.July, Move: true}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be removed after move, stat err = %v", err)
	}
}

func TestStoreDerivesDateFromFileName(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeFile(t, filepath.Join(base, "telemetry_2024-03-01.xlsx"))
	dest, err := org.Store(src, StoreOptions{})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	want := filepath.Join(org.BaseDir, "2024", "03_March", "telemetry_2024-03-01.xlsx")
	if dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
}

func TestStoreDerivesDateFromWorkbookContent(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	// No date in the name; the first cell of the detected date column
	// decides the filing month.
	src := filepath.Join(base, "sitedump.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Date")
	f.SetCellValue("Sheet1", "B1", "Raw")
	f.SetCellValue("Sheet1", "A2", "2022-11-05")
	f.SetCellValue("Sheet1", "B2", 42)
	if err := f.SaveAs(src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dest, err := org.Store(src, StoreOptions{})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	want := filepath.Join(org.BaseDir, "2022", "11_November", "sitedump.xlsx")
	if dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
}

func TestStoreUndeterminableDate(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	src := writeFile(t, filepath.Join(base, "nodate.xlsx"))
	if _, err := org.Store(src, StoreOptions{}); err == nil {
		t.Error("expected an error when no date can be derived")
	}
}

func TestEnsureYearLayout(t *testing.T) {
	org, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatal(err)
	}

	dirs, err := org.EnsureYearLayout(2023)
	if err != nil {
		t.Fatalf("EnsureYearLayout failed: %v", err)
	}
	if len(dirs) != 12 {
		t.Fatalf("expected 12 month dirs, got %d", len(dirs))
	}
	if dirs[time.March] != filepath.Join(org.BaseDir, "2023", "03_March") {
		t.Errorf("March dir = %q", dirs[time.March])
	}
	for m, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("month %s: directory missing (%v)", m, err)
		}
	}
}

func TestListMonthAndYear(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	srcA := writeFile(t, filepath.Join(base, "a.xlsx"))
	srcB := writeFile(t, filepath.Join(base, "b.xlsx"))
	if _, err := org.Store(srcA, StoreOptions{Year: 2023, Month: time.July}); err != nil {
		t.Fatal(err)
	}
	if _, err := org.Store(srcB, StoreOptions{Year: 2023, Month: time.September}); err != nil {
		t.Fatal(err)
	}

	july, err := org.ListMonth(2023, time.July)
	if err != nil {
		t.Fatalf("ListMonth failed: %v", err)
	}
	if len(july) != 1 || filepath.Base(july[0]) != "a.xlsx" {
		t.Errorf("July files = %v", july)
	}

	year, err := org.ListYear(2023)
	if err != nil {
		t.Fatalf("ListYear failed: %v", err)
	}
	if len(year[time.July]) != 1 || len(year[time.September]) != 1 {
		t.Errorf("year listing = %v", year)
	}
	if len(year[time.January]) != 0 {
		t.Errorf("January should be empty, got %v", year[time.January])
	}

	// Unknown year lists as all-empty, not as an error.
	empty, err := org.ListMonth(1999, time.July)
	if err != nil || empty != nil {
		t.Errorf("ListMonth(1999) = (%v, %v), want (nil, nil)", empty, err)
	}
}

func TestOrganizeDir(t *testing.T) {
	base := t.TempDir()
	org, err := New(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(base, "incoming")
	if err := os.MkdirAll(input, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(input, "a.xlsx"))
	writeFile(t, filepath.Join(input, "b.xlsx"))
	writeFile(t, filepath.Join(input, "ignored.txt"))

	opts := StoreOptions{Year: 2023, Month: time.July}
	report, err := org.OrganizeDir(input, opts)
	if err != nil {
		t.Fatalf("OrganizeDir failed: %v", err)
	}
	if report.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2 (txt ignored)", report.TotalFiles)
	}
	if len(report.Stored) != 2 || len(report.Skipped) != 0 || len(report.Errors) != 0 {
		t.Errorf("report = %+v", report)
	}

	// A second run skips everything.
	report, err = org.OrganizeDir(input, opts)
	if err != nil {
		t.Fatalf("second OrganizeDir failed: %v", err)
	}
	if len(report.Stored) != 0 || len(report.Skipped) != 2 {
		t.Errorf("second run report = %+v", report)
	}
}
