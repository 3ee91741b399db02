// Package organizer files telemetry workbooks into a year/month directory
// tree and builds annual reports from the stored files.
package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyStored indicates a file with the same name is already present at
// the destination. The store is skipped; the existing path is returned so
// callers can log it as already-processed.
var ErrAlreadyStored = errors.New("file already stored")

// Organizer files workbooks under a base directory laid out as
// {base}/{year}/{MM}_{MonthName}/.
type Organizer struct {
	BaseDir string
}

// New creates the base directory if needed and returns an Organizer over it.
func New(baseDir string) (*Organizer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &Organizer{BaseDir: baseDir}, nil
}

// StoreOptions controls a Store call. Zero Year or Month means derive the
// value from the file name or workbook content.
type StoreOptions struct {
	Year  int
	Month time.Month
	// Move removes the source after a successful copy.
	Move bool
}

// monthDirName renders a month directory component, e.g. "03_March".
func monthDirName(m time.Month) string {
	return fmt.Sprintf("%02d_%s", int(m), m.String())
}

// EnsureYearLayout creates the directory for a year with one folder per
// month and returns the twelve month paths.
func (o *Organizer) EnsureYearLayout(year int) (map[time.Month]string, error) {
	dirs := make(map[time.Month]string, 12)
	for m := time.January; m <= time.December; m++ {
		dir := filepath.Join(o.BaseDir, fmt.Sprint(year), monthDirName(m))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create month directory: %w", err)
		}
		dirs[m] = dir
	}
	return dirs, nil
}

// Store files a workbook under its year/month directory, keeping the
// original file name. Year and month come from opts or are derived from the
// file name, falling back to the first date-like cell in the workbook. A
// name collision at the destination is never overwritten: Store returns the
// existing path together with ErrAlreadyStored.
func (o *Organizer) Store(filePath string, opts StoreOptions) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("source file: %w", err)
	}

	year, month := opts.Year, opts.Month
	if year == 0 || month == 0 {
		dYear, dMonth, err := deriveDate(filePath)
		if err != nil {
			return "", err
		}
		if year == 0 {
			year = dYear
		}
		if month == 0 {
			month = dMonth
		}
	}
	if month < time.January || month > time.December {
		return "", fmt.Errorf("month out of range: %d", int(month))
	}

	dirs, err := o.EnsureYearLayout(year)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dirs[month], filepath.Base(filePath))

	if _, err := os.Stat(dest); err == nil {
		return dest, fmt.Errorf("%w: %s", ErrAlreadyStored, dest)
	}

	if err := copyFile(filePath, dest); err != nil {
		return "", fmt.Errorf("store %s: %w", filePath, err)
	}
	if opts.Move {
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("remove source after move: %w", err)
		}
	}

	log.Info().Str("file", filepath.Base(filePath)).Str("dest", dest).Msg("Stored file")
	return dest, nil
}

// ListMonth returns the files stored for a year and month, sorted by name.
func (o *Organizer) ListMonth(year int, month time.Month) ([]string, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month out of range: %d", int(month))
	}
	dir := filepath.Join(o.BaseDir, fmt.Sprint(year), monthDirName(month))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListYear returns the stored files of a year keyed by month. Months with no
// stored files map to an empty slice.
func (o *Organizer) ListYear(year int) (map[time.Month][]string, error) {
	result := make(map[time.Month][]string, 12)
	for m := time.January; m <= time.December; m++ {
		files, err := o.ListMonth(year, m)
		if err != nil {
			return nil, err
		}
		result[m] = files
	}
	return result, nil
}

// StoredFile records one successful Store within an OrganizeDir run.
type StoredFile struct {
	Source      string
	Destination string
}

// FileError records one failed Store within an OrganizeDir run.
type FileError struct {
	Source string
	Err    error
}

// Report summarizes an OrganizeDir run.
type Report struct {
	TotalFiles int
	Stored     []StoredFile
	Skipped    []StoredFile
	Errors     []FileError
}

// OrganizeDir stores every workbook in inputDir. Files already present at
// their destination are reported as skipped; per-file failures are collected
// and do not stop the run.
func (o *Organizer) OrganizeDir(inputDir string, opts StoreOptions) (*Report, error) {
	patterns := []string{"*.xlsx", "*.xlsm"}
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(inputDir, p))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if _, err := os.Stat(inputDir); err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}

	report := &Report{TotalFiles: len(files)}
	for _, file := range files {
		dest, err := o.Store(file, opts)
		switch {
		case err == nil:
			report.Stored = append(report.Stored, StoredFile{Source: file, Destination: dest})
		case errors.Is(err, ErrAlreadyStored):
			log.Info().Str("file", filepath.Base(file)).Msg("Already stored, skipping")
			report.Skipped = append(report.Skipped, StoredFile{Source: file, Destination: dest})
		default:
			log.Warn().Str("file", filepath.Base(file)).Err(err).Msg("Could not store file")
			report.Errors = append(report.Errors, FileError{Source: file, Err: err})
		}
	}
	return report, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
