package report

import "time"

// DateRange bounds a report by calendar day, inclusive on both ends. Zero
// bounds are open: a zero From matches everything up to To and vice versa.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether day d falls inside the range. Both bounds compare
// at day granularity.
func (r DateRange) Contains(d time.Time) bool {
	d = truncateDay(d)
	if !r.From.IsZero() && d.Before(truncateDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(truncateDay(r.To)) {
		return false
	}
	return true
}

// IsZero reports whether the range has no bounds set.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Filters describes the categorical and date criteria applied to a fetched
// row set. An empty string in Equals and an empty slice in In mean "All":
// the column is not constrained.
type Filters struct {
	// DateColumn names the field compared against Date. Empty disables
	// date filtering even when Date has bounds.
	DateColumn string
	Date       DateRange

	// Equals maps column name to the single selected value.
	Equals map[string]string

	// In maps column name to the set of selected values.
	In map[string][]string
}

// Match reports whether the row passes every active criterion. Rows whose
// date field cannot be parsed fail an active date filter.
func (f Filters) Match(row Row) bool {
	if f.DateColumn != "" && !f.Date.IsZero() {
		d, ok := Day(row[f.DateColumn])
		if !ok || !f.Date.Contains(d) {
			return false
		}
	}
	for col, want := range f.Equals {
		if want == "" {
			continue
		}
		if Text(row[col]) != want {
			return false
		}
	}
	for col, want := range f.In {
		if len(want) == 0 {
			continue
		}
		got := Text(row[col])
		found := false
		for _, w := range want {
			if got == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the rows passing the filter, preserving input order.
func (f Filters) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}

// Options returns the distinct values of column across rows, in first-seen
// order. Empty values are skipped; the "All" choice is a UI concern.
func Options(rows []Row, column string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)
	for _, row := range rows {
		v := Text(row[column])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
