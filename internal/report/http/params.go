package reporthttp

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/strata-erp/strata-reports/internal/report"
	"github.com/strata-erp/strata-reports/internal/reportcfg"
)

const queryDayFormat = "2006-01-02"

// parseState reads the pipeline state for a report from request query
// parameters. Filter values arrive under their column names; unknown
// parameters are ignored.
func parseState(r *http.Request, cfg *reportcfg.ReportConfig) (report.State, error) {
	q := r.URL.Query()
	var state report.State

	if v := q.Get("fromdate"); v != "" {
		d, err := time.Parse(queryDayFormat, v)
		if err != nil {
			return state, errBadDate
		}
		state.Date.From = d
	}
	if v := q.Get("todate"); v != "" {
		d, err := time.Parse(queryDayFormat, v)
		if err != nil {
			return state, errBadDate
		}
		state.Date.To = d
	}

	if len(cfg.Pipeline.FilterColumns) > 0 {
		state.Equals = make(map[string]string, len(cfg.Pipeline.FilterColumns))
		for _, col := range cfg.Pipeline.FilterColumns {
			state.Equals[col] = q.Get(col)
		}
	}
	if len(cfg.Pipeline.MultiFilterColumns) > 0 {
		state.In = make(map[string][]string, len(cfg.Pipeline.MultiFilterColumns))
		for _, col := range cfg.Pipeline.MultiFilterColumns {
			state.In[col] = dropEmpty(q[col])
		}
	}
	if n := len(cfg.Pipeline.CascadeColumns); n > 0 {
		state.Cascade = make([][]string, n)
		for i, col := range cfg.Pipeline.CascadeColumns {
			state.Cascade[i] = dropEmpty(q[col])
		}
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			page = 1
		}
		state.Page = page
	}
	state.Expanded = q.Get("expanded") == "1" || q.Get("expanded") == "true"
	return state, nil
}

// upstreamParams maps server-side filter selections onto the backend's
// query parameters per the configured bindings.
func upstreamParams(cfg *reportcfg.ReportConfig, state report.State) url.Values {
	if len(cfg.Upstream.Params) == 0 {
		return nil
	}
	params := url.Values{}
	for col, param := range cfg.Upstream.Params {
		if v := state.Equals[col]; v != "" {
			params.Set(param, v)
		}
		for _, v := range state.In[col] {
			params.Add(param, v)
		}
	}
	return params
}

func dropEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
