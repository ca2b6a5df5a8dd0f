package report

import (
	"sort"
	"time"
)

// Ledger column names understood by the running-balance transforms.
const (
	LedgerInColumn      = "In_Qty"
	LedgerOutColumn     = "Out_Qty"
	LedgerClosingColumn = "closing"
)

// LedgerDay is one calendar day of ledger movement with its day totals and
// the running balance at end of day.
type LedgerDay struct {
	Date     time.Time `json:"date"`
	Rows     []Row     `json:"rows"`
	TotalIn  float64   `json:"totalIn"`
	TotalOut float64   `json:"totalOut"`
	Closing  float64   `json:"closing"`
}

// BuildLedgerRows orders rows by the date column, accumulates a running
// balance of in minus out quantities starting from opening, and attaches the
// balance under LedgerClosingColumn on the last row of each calendar day.
// Every other row carries a nil closing. Rows whose date cannot be parsed
// are excluded. Input rows are not mutated.
func BuildLedgerRows(rows []Row, dateColumn string, opening float64) []Row {
	type dated struct {
		row Row
		ts  time.Time
		day time.Time
	}
	items := make([]dated, 0, len(rows))
	for _, row := range rows {
		ts, ok := Timestamp(row[dateColumn])
		if !ok {
			continue
		}
		items = append(items, dated{row: row, ts: ts, day: truncateDay(ts)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ts.Before(items[j].ts) })

	out := make([]Row, len(items))
	running := opening
	for i, it := range items {
		running += Number(it.row[LedgerInColumn]) - Number(it.row[LedgerOutColumn])
		row := it.row.Clone()
		if i == len(items)-1 || !items[i+1].day.Equal(it.day) {
			row[LedgerClosingColumn] = running
		} else {
			row[LedgerClosingColumn] = nil
		}
		out[i] = row
	}
	return out
}

// GroupByDay buckets ledger rows produced by BuildLedgerRows into calendar
// days in chronological order, computing per-day in/out totals and carrying
// the day's closing balance.
func GroupByDay(rows []Row, dateColumn string) []LedgerDay {
	var days []LedgerDay
	index := make(map[time.Time]int)
	for _, row := range rows {
		day, ok := Day(row[dateColumn])
		if !ok {
			continue
		}
		i, seen := index[day]
		if !seen {
			i = len(days)
			index[day] = i
			days = append(days, LedgerDay{Date: day})
		}
		d := &days[i]
		d.Rows = append(d.Rows, row)
		d.TotalIn += Number(row[LedgerInColumn])
		d.TotalOut += Number(row[LedgerOutColumn])
		if c, ok := row[LedgerClosingColumn].(float64); ok {
			d.Closing = c
		}
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}
