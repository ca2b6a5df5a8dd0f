package report

// CascadeLevel is one tier of a dependent filter chain. Level 0 is
// single-select; deeper levels are multi-select and only offer values that
// survive the selections above them.
type CascadeLevel struct {
	// Column is the row field this level filters on.
	Column string
	// Multi marks the level as multi-select. Level 0 is conventionally
	// single-select but the pipeline does not enforce that.
	Multi bool
	// Measure names a numeric column summed per option value, shown next
	// to each choice. Empty disables totals.
	Measure string

	// Selected holds the chosen values. Single-select levels use at most
	// one entry; empty means "All".
	Selected []string
}

// CascadeOption is one selectable value at a cascade level with the summed
// measure of the rows it covers.
type CascadeOption struct {
	Value string  `json:"value"`
	Total float64 `json:"total"`
}

// Cascade is an ordered chain of dependent filter levels. Changing the
// selection at any level clears every deeper level, so a stale narrow
// selection can never outlive the wider choice it depended on.
type Cascade struct {
	Levels []CascadeLevel
}

// NewCascade builds a cascade over the given columns, the first level
// single-select and the rest multi-select.
func NewCascade(columns ...string) Cascade {
	levels := make([]CascadeLevel, len(columns))
	for i, col := range columns {
		levels[i] = CascadeLevel{Column: col, Multi: i > 0}
	}
	return Cascade{Levels: levels}
}

// Select replaces the selection at level i and clears all deeper levels.
// Out-of-range levels are ignored.
func (c *Cascade) Select(i int, values ...string) {
	if i < 0 || i >= len(c.Levels) {
		return
	}
	c.Levels[i].Selected = append([]string(nil), values...)
	for j := i + 1; j < len(c.Levels); j++ {
		c.Levels[j].Selected = nil
	}
}

// Options returns the choices available at level i given the selections at
// all shallower levels, each with the summed measure of its rows. The
// level's own selection never constrains its option list, so widening a
// choice stays possible.
func (c Cascade) Options(rows []Row, i int) []CascadeOption {
	if i < 0 || i >= len(c.Levels) {
		return nil
	}
	scoped := rows
	for j := 0; j < i; j++ {
		scoped = filterLevel(scoped, c.Levels[j])
	}
	lvl := c.Levels[i]
	values := Options(scoped, lvl.Column)
	totals := make(map[string]float64, len(values))
	if lvl.Measure != "" {
		for _, row := range scoped {
			v := Text(row[lvl.Column])
			if v == "" {
				continue
			}
			totals[v] += Number(row[lvl.Measure])
		}
	}
	out := make([]CascadeOption, len(values))
	for k, v := range values {
		out[k] = CascadeOption{Value: v, Total: totals[v]}
	}
	return out
}

// Apply returns the rows matching every level's selection.
func (c Cascade) Apply(rows []Row) []Row {
	out := rows
	for _, lvl := range c.Levels {
		out = filterLevel(out, lvl)
	}
	return out
}

func filterLevel(rows []Row, lvl CascadeLevel) []Row {
	if len(lvl.Selected) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		got := Text(row[lvl.Column])
		for _, want := range lvl.Selected {
			if got == want {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
