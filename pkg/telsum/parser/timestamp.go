package parser

import "time"

// timestampLayouts covers the cell text formats telemetry exports are seen
// with. Order matters: more specific layouts first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"01-02-06",
}

// ParseTimestamp tries to interpret a cell value as a point in time. Excel
// serial date numbers are accepted alongside the textual layouts.
func ParseTimestamp(v any) (time.Time, bool) {
	switch c := v.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int64:
		return excelSerialToTime(float64(c))
	case float64:
		return excelSerialToTime(c)
	default:
		return time.Time{}, false
	}
}

// excelSerialToTime converts an Excel serial date (days since 1899-12-30) to
// a time. Values outside the plausible serial range are rejected so ordinary
// telemetry readings are not mistaken for dates.
func excelSerialToTime(serial float64) (time.Time, bool) {
	// 36526 = 2000-01-01, 73415 = 2100-12-31
	if serial < 36526 || serial > 73415 {
		return time.Time{}, false
	}
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	days := int(serial)
	frac := serial - float64(days)
	return epoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour))), true
}
