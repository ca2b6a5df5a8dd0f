// Package reportcfg serves the per-tenant report configuration catalog:
// column layouts, filter levels, grouping dimensions and pre-computed option
// lists keyed by report name.
package reportcfg

import (
	"time"

	"github.com/strata-erp/strata-reports/internal/report"
)

// FilterOption is one selectable value of a configured filter level.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterLevel describes one configured filter tier for a report screen.
type FilterLevel struct {
	Column  string         `json:"column"`
	Label   string         `json:"label"`
	Multi   bool           `json:"multi"`
	Options []FilterOption `json:"options,omitempty"`
}

// UpstreamSpec binds a report screen to its backend endpoint.
type UpstreamSpec struct {
	// Path is the backend endpoint serving the report's rows.
	Path string `json:"path"`
	// ExpandedPath, when set, serves the itemized variant of the report.
	ExpandedPath string `json:"expandedPath,omitempty"`
	// OpeningPath, when set, serves the opening balance for ledger screens.
	OpeningPath string `json:"openingPath,omitempty"`
	// Params maps a filter column to the upstream query parameter carrying
	// its selected value, for filters the backend applies server-side.
	Params map[string]string `json:"params,omitempty"`
}

// ReportConfig couples a report's pipeline shape with its filter metadata
// and upstream binding.
type ReportConfig struct {
	Pipeline report.Config `json:"pipeline"`
	Filters  []FilterLevel `json:"filters,omitempty"`
	Upstream UpstreamSpec  `json:"upstream"`

	UpdatedAt time.Time `json:"updatedAt"`
}
