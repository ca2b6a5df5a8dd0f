package report

// FilterKind classifies a column for filter rendering.
type FilterKind string

const (
	FilterNone    FilterKind = "none"
	FilterDate    FilterKind = "date"
	FilterText    FilterKind = "text"
	FilterNumeric FilterKind = "numeric"
)

// Column describes one report column: its backend key, display label, an
// optional fallback key read when the primary is nil, and whether it holds
// a numeric value.
type Column struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	AltKey  string     `json:"altKey,omitempty"`
	Numeric bool       `json:"numeric"`
	Filter  FilterKind `json:"filter"`
	// Enabled controls pivot participation for configurable screens.
	Enabled bool `json:"enabled"`
}

// Value reads the column's field from the row, falling back to AltKey when
// the primary key is nil or absent.
func (c Column) Value(row Row) any {
	if v, ok := row[c.Key]; ok && v != nil {
		return v
	}
	if c.AltKey != "" {
		return row[c.AltKey]
	}
	return nil
}
