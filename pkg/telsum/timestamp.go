package telsum

import (
	"time"

	"telsuite/pkg/telsum/parser"
)

// timestamp cells can be datetimes, bare numbers or arbitrary text. Ordering
// is chronological when both sides parse as a time, numeric when both are
// numbers, lexical otherwise; mixed kinds order time < number < text.
type tsKind int

const (
	tsTime tsKind = iota
	tsNumber
	tsText
)

type tsKey struct {
	kind tsKind
	t    time.Time
	num  float64
	text string
}

func timestampKey(v any) tsKey {
	if t, ok := parser.ParseTimestamp(v); ok {
		return tsKey{kind: tsTime, t: t}
	}
	if n, ok := parser.Numeric(v); ok {
		return tsKey{kind: tsNumber, num: n}
	}
	s, _ := v.(string)
	return tsKey{kind: tsText, text: s}
}

func lessTimestamp(a, b tsKey) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	switch a.kind {
	case tsTime:
		return a.t.Before(b.t)
	case tsNumber:
		return a.num < b.num
	default:
		return a.text < b.text
	}
}
