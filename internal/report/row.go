// Package report implements the shaping pipeline applied to rows fetched
// from the upstream ERP API: date and categorical filtering, cascading level
// filters, recursive grouping, running-balance ledgers, summary aggregation,
// pagination and export mapping. Every transform is a pure function of its
// inputs; handlers own all state.
package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Row is a single report record keyed by backend field names. The schema is
// backend-defined and varies per report; rows are never mutated after fetch.
type Row map[string]any

// dateLayouts lists the wire formats the upstream emits for date fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Number coerces a field value to float64. Missing or non-numeric values
// yield 0; the upstream serialises amounts as numeric strings so this is a
// best-effort conversion, not silent data loss.
func Number(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Text coerces a field value to its string form for equality filtering.
// Numbers are formatted without an exponent so numeric-looking values
// compare the way a user sees them.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Day parses a field value as a calendar day, dropping any time-of-day
// component. ok is false for missing or unparseable values; callers treat
// those rows as failing date comparisons rather than coercing to "now".
func Day(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return truncateDay(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDay(t), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Timestamp parses a field value as a point in time, keeping the time-of-day
// component for stable intra-day ordering.
func Timestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Clone returns a shallow copy of the row. Transforms that attach synthetic
// fields copy first so the fetched row set stays immutable.
func (r Row) Clone() Row {
	out := make(Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
