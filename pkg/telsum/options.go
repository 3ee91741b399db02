// Package telsum groups worksheets by name prefix and aggregates telemetry
// columns across each group.
package telsum

// Mode selects how rows sharing a timestamp are handled.
type Mode string

const (
	// ModePreserve keeps every row individually, sorted by timestamp.
	ModePreserve Mode = "preserve"
	// ModeSum collapses rows sharing an identical timestamp by summing the
	// value columns.
	ModeSum Mode = "sum"
)

// DefaultPrefixLength is the number of leading characters of a worksheet
// name used as its group key when the caller does not choose one.
const DefaultPrefixLength = 6

// defaultValueColumn is the column the fixed telemetry workflow sums.
const defaultValueColumn = "Raw"

// Options configures an aggregation or analysis run.
type Options struct {
	// PrefixLength is the group key length in characters. Zero means
	// DefaultPrefixLength.
	PrefixLength int
	// ValueColumns are the columns carried into the output. Empty means the
	// single "Raw" column of the fixed workflow.
	ValueColumns []string
	// TimestampColumn names the timestamp column explicitly. Empty means
	// auto-detect per sheet.
	TimestampColumn string
	// Mode selects collapsing behavior; empty means ModePreserve.
	Mode Mode
	// TrackSources adds a Source_Sheet provenance column recording the
	// worksheet each row (or summed contribution) came from.
	TrackSources bool
}

// DefaultOptions returns the fixed-column workflow: group by the first six
// characters, carry the Raw column, auto-detect the timestamp, keep all rows.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// requiredValueColumns is the number of value columns a worksheet must carry
// to qualify. The fixed workflow demands every requested column; with source
// tracking a single present column is enough, since provenance disambiguates
// partially overlapping sheets.
func requiredValueColumns(o Options) int {
	if o.TrackSources {
		return 1
	}
	return len(o.ValueColumns)
}

func (o Options) withDefaults() Options {
	if o.PrefixLength <= 0 {
		o.PrefixLength = DefaultPrefixLength
	}
	if len(o.ValueColumns) == 0 {
		o.ValueColumns = []string{defaultValueColumn}
	}
	if o.Mode == "" {
		o.Mode = ModePreserve
	}
	return o
}
