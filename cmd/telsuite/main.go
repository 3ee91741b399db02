// Package main provides the telsuite CLI: worksheet grouping and summation,
// preview analysis, year/month filing and annual reports.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"telsuite/internal/app"
	"telsuite/internal/config"
	"telsuite/pkg/organizer"
	"telsuite/pkg/telsum"
)

var (
	outputPath   string
	prefixLength int
	valueColumns []string
	timestampCol string
	collapse     bool
	baseDir      string
	storeYear    int
	storeMonth   int
	moveFiles    bool
)

func main() {
	app.SetupEnvironment()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	rootCmd := &cobra.Command{
		Use:   "telsuite",
		Short: "Group, sum and file telemetry workbooks",
		Long: `telsuite sums telemetry columns across Excel worksheets that share a
name prefix, and files workbooks into a year/month directory tree.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSumCmd(cfg))
	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newOrganizeCmd(cfg))
	rootCmd.AddCommand(newAnnualCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildOptions assembles engine options from the shared detection flags.
// Passing explicit columns switches on provenance tracking, matching the
// generic workflow; without them the fixed Raw-column workflow applies.
func buildOptions() telsum.Options {
	opts := telsum.Options{
		PrefixLength:    prefixLength,
		TimestampColumn: timestampCol,
	}
	if len(valueColumns) > 0 {
		opts.ValueColumns = valueColumns
		opts.TrackSources = true
	}
	if collapse {
		opts.Mode = telsum.ModeSum
	}
	return opts
}

func addDetectionFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().IntVarP(&prefixLength, "prefix-length", "p", cfg.Sum.PrefixLength,
		"Number of leading worksheet-name characters forming a group key")
	cmd.Flags().StringSliceVar(&valueColumns, "columns", nil,
		"Value columns to carry (default: the Raw column; setting this adds a Source_Sheet column)")
	cmd.Flags().StringVar(&timestampCol, "timestamp-column", "",
		"Timestamp column name (default: auto-detect per sheet)")
}

func newSumCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum [input.xlsx]",
		Short: "Sum telemetry columns across worksheets sharing a name prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := outputPath
			if output == "" {
				output = defaultOutputPath(input)
			}

			result, err := telsum.Aggregate(input, output, buildOptions())
			if err != nil {
				return err
			}

			for _, msg := range result.SheetErrors {
				fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			}
			fmt.Printf("Processed %d of %d group(s).\n", result.ProcessedGroups, result.TotalGroups)
			if result.OutputPath == "" {
				fmt.Println("No qualifying data found; no output file was written.")
				return nil
			}
			fmt.Printf("Output saved to: %s\n", result.OutputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output workbook path (default: <input>_summed.<ext>)")
	cmd.Flags().BoolVar(&collapse, "collapse", false,
		"Sum rows sharing an identical timestamp instead of keeping them individually")
	addDetectionFlags(cmd, cfg)
	return cmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input.xlsx]",
		Short: "Preview sheet grouping and processability without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			analysis, err := telsum.Analyze(input, buildOptions())
			if err != nil {
				return err
			}

			fmt.Printf("File: %s\n", input)
			fmt.Printf("Total sheets: %d\n", analysis.TotalSheets)
			fmt.Printf("Processable groups: %d\n\n", analysis.ProcessableGroups)
			fmt.Printf("Sheet grouping (prefix length: %d):\n", prefixLength)

			for _, key := range analysis.Groups.Keys() {
				members := analysis.Groups.Members(key)
				fmt.Printf("\nGroup: %q (%d sheet(s))\n", key, len(members))
				for _, sheet := range members {
					sa := analysis.Sheets[sheet]
					if sa.Processable {
						fmt.Printf("  - %s: will be processed (timestamp column: %s)\n",
							sheet, sa.TimestampColumn)
						continue
					}
					fmt.Printf("  - %s: will be SKIPPED\n", sheet)
					if len(sa.ValueColumns) == 0 {
						fmt.Println("      missing value column(s)")
					}
					if sa.TimestampColumn == "" {
						fmt.Println("      missing timestamp column")
					}
					if sa.Err != "" {
						fmt.Printf("      error: %s\n", sa.Err)
					}
				}
			}
			return nil
		},
	}
	addDetectionFlags(cmd, cfg)
	return cmd
}

func newOrganizeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [dir]",
		Short: "File workbooks from a directory into the year/month tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := organizer.New(baseDir)
			if err != nil {
				return err
			}
			report, err := org.OrganizeDir(args[0], organizer.StoreOptions{
				Year:  storeYear,
				Month: time.Month(storeMonth),
				Move:  moveFiles,
			})
			if err != nil {
				return err
			}

			for _, s := range report.Stored {
				fmt.Printf("stored:  %s -> %s\n", filepath.Base(s.Source), s.Destination)
			}
			for _, s := range report.Skipped {
				fmt.Printf("skipped: %s (already stored at %s)\n", filepath.Base(s.Source), s.Destination)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(os.Stderr, "error:   %s: %v\n", filepath.Base(e.Source), e.Err)
			}
			fmt.Printf("Completed: %d stored, %d skipped, %d error(s) out of %d file(s).\n",
				len(report.Stored), len(report.Skipped), len(report.Errors), report.TotalFiles)
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d file(s) could not be organized", len(report.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", cfg.Data.BaseDir, "Base directory of the year/month tree")
	cmd.Flags().IntVar(&storeYear, "year", 0, "Year to file under (default: derive per file)")
	cmd.Flags().IntVar(&storeMonth, "month", 0, "Month to file under, 1-12 (default: derive per file)")
	cmd.Flags().BoolVar(&moveFiles, "move", false, "Move files instead of copying")
	return cmd
}

func newAnnualCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annual [year]",
		Short: "Combine a year's stored files into an annual report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year: %s", args[0])
			}
			org, err := organizer.New(baseDir)
			if err != nil {
				return err
			}

			opts := buildOptions()
			process := func(in, out string) error {
				_, err := telsum.Aggregate(in, out, opts)
				return err
			}

			reportPath, err := org.AnnualReport(year, outputPath, process)
			if err != nil {
				return err
			}
			if reportPath == "" {
				fmt.Printf("No data found for year %d.\n", year)
				return nil
			}
			fmt.Printf("Annual report saved to: %s\n", reportPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", cfg.Data.BaseDir, "Base directory of the year/month tree")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Report path (default: <base>/<year>/Annual_Report_<year>.xlsx)")
	addDetectionFlags(cmd, cfg)
	return cmd
}

// defaultOutputPath derives <name>_summed<ext> next to the input file.
func defaultOutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"_summed"+ext)
}
