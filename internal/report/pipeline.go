package report

import (
	"github.com/strata-erp/strata-reports/internal/shared"
)

// Mode selects the shape of a pipeline result.
type Mode string

const (
	// ModeRows emits a flat paginated row list.
	ModeRows Mode = "rows"
	// ModeGroups emits a recursive grouping tree.
	ModeGroups Mode = "groups"
	// ModeLedger emits running-balance rows bucketed by calendar day.
	ModeLedger Mode = "ledger"
	// ModePivot collapses rows on the enabled text columns before listing.
	ModePivot Mode = "pivot"
)

// Config is the static shape of one report screen: its columns, filterable
// fields, grouping layout and summary cards. Configs are loaded per tenant
// and never mutated by requests.
type Config struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Mode    Mode     `json:"mode"`

	// DateColumn names the field the date-range filter compares against.
	DateColumn string `json:"dateColumn,omitempty"`
	// FilterColumns lists the single-select equality filter fields.
	FilterColumns []string `json:"filterColumns,omitempty"`
	// MultiFilterColumns lists the multi-select filter fields.
	MultiFilterColumns []string `json:"multiFilterColumns,omitempty"`
	// CascadeColumns orders the dependent filter chain, level 0 first.
	CascadeColumns []string `json:"cascadeColumns,omitempty"`
	// CascadeMeasure is the numeric column summed next to cascade options.
	CascadeMeasure string `json:"cascadeMeasure,omitempty"`

	// GroupColumns orders the recursive grouping dimensions.
	GroupColumns []string `json:"groupColumns,omitempty"`
	// TopColumn, when set, injects a synthetic top grouping dimension.
	TopColumn string `json:"topColumn,omitempty"`

	// CountColumn is the field distinct-counted in pivot mode.
	CountColumn string `json:"countColumn,omitempty"`

	Summaries []SummarySpec `json:"summaries,omitempty"`
	PageSize  int           `json:"pageSize,omitempty"`
}

// State is the per-request selection against a Config: filter values,
// cascade selections and the requested page. The zero value means no
// filtering, page 1.
type State struct {
	Date     DateRange
	Equals   map[string]string
	In       map[string][]string
	Cascade  [][]string
	Opening  float64
	Page     int
	Expanded bool
}

// Result is the fully shaped output of one pipeline run. Exactly one of
// Rows, Groups or Days is populated, per the config's Mode.
type Result struct {
	Rows    []Row              `json:"rows,omitempty"`
	Groups  []*GroupNode       `json:"groups,omitempty"`
	Days    []LedgerDay        `json:"days,omitempty"`
	Summary map[string]float64 `json:"summary,omitempty"`

	// Options lists the available choices per cascade level after the
	// shallower selections are applied.
	Options    [][]CascadeOption `json:"options,omitempty"`
	Pagination shared.Pagination `json:"pagination"`

	// filtered retains the pre-pagination row set for exports.
	filtered []Row
}

// Filtered returns the full post-filter row set regardless of pagination,
// the input to summaries and exports.
func (r Result) Filtered() []Row {
	return r.filtered
}

// Run applies the config's full pipeline to freshly fetched rows: filters,
// then cascade, then the mode's shaping transform, then summary and
// pagination. rows is never mutated.
func Run(cfg Config, state State, rows []Row) Result {
	filters := Filters{
		DateColumn: cfg.DateColumn,
		Date:       state.Date,
		Equals:     state.Equals,
		In:         state.In,
	}
	filtered := filters.Apply(rows)

	var result Result
	cascade := cfg.cascade(state)
	if len(cascade.Levels) > 0 {
		result.Options = make([][]CascadeOption, len(cascade.Levels))
		for i := range cascade.Levels {
			result.Options[i] = cascade.Options(filtered, i)
		}
		filtered = cascade.Apply(filtered)
	}

	switch cfg.Mode {
	case ModeGroups:
		if cfg.TopColumn != "" && state.Expanded {
			result.Groups = BuildGroupsWithTop(filtered, cfg.TopColumn, cfg.GroupColumns)
		} else {
			result.Groups = BuildGroups(filtered, cfg.GroupColumns)
		}
	case ModeLedger:
		ledger := BuildLedgerRows(filtered, cfg.DateColumn, state.Opening)
		result.Days = GroupByDay(ledger, cfg.DateColumn)
		filtered = ledger
	case ModePivot:
		filtered = Pivot(filtered, cfg.Columns, cfg.CountColumn)
		result.Rows, result.Pagination = paginate(filtered, state.Page, cfg.pageSize())
	default:
		result.Rows, result.Pagination = paginate(filtered, state.Page, cfg.pageSize())
	}

	result.Summary = Summarize(filtered, cfg.Summaries)
	result.filtered = filtered
	return result
}

// ExportRows returns the rows a file export renders for the given result:
// the flattened group tree in group mode, otherwise the full filtered set.
func ExportRows(cfg Config, result Result) []Row {
	if cfg.Mode == ModeGroups {
		return FlattenGroups(result.Groups)
	}
	return result.Filtered()
}

func (cfg Config) cascade(state State) Cascade {
	c := NewCascade(cfg.CascadeColumns...)
	for i := range c.Levels {
		c.Levels[i].Measure = cfg.CascadeMeasure
		if i < len(state.Cascade) {
			c.Levels[i].Selected = state.Cascade[i]
		}
	}
	return c
}

func (cfg Config) pageSize() int {
	if cfg.PageSize > 0 {
		return cfg.PageSize
	}
	return shared.DefaultPerPage
}

func paginate(rows []Row, page, size int) ([]Row, shared.Pagination) {
	p := shared.NewPagination(page, size, len(rows))
	lo, hi := p.Bounds()
	return rows[lo:hi], p
}
