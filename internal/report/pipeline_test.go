package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesConfig() Config {
	return Config{
		Name: "sales-online",
		Mode: ModeRows,
		Columns: []Column{
			{Key: SerialColumn, Label: "S.No"},
			{Key: "Invoice_Date", Label: "Date", Filter: FilterDate},
			{Key: "Customer", Label: "Customer", Filter: FilterText},
			{Key: "Amount", Label: "Amount", Numeric: true},
		},
		DateColumn:    "Invoice_Date",
		FilterColumns: []string{"Customer"},
		Summaries: []SummarySpec{
			{Label: "Total", Column: "Amount", Aggregate: AggregateSum},
			{Label: "Average", Column: "Amount", Aggregate: AggregateAvg},
		},
		PageSize: 25,
	}
}

func salesRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			"Invoice_Date": fmt.Sprintf("2025-01-%02d", i%28+1),
			"Customer":     fmt.Sprintf("C%d", i%3),
			"Amount":       "10",
		}
	}
	return rows
}

func TestRunRowsModePaginates(t *testing.T) {
	res := Run(salesConfig(), State{Page: 2}, salesRows(60))
	require.Len(t, res.Rows, 25)
	assert.Equal(t, 2, res.Pagination.Page)
	assert.Equal(t, 60, res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)

	// Summary covers the full filtered set, not the page.
	assert.Equal(t, 600.0, res.Summary["Total"])
	assert.Equal(t, 10.0, res.Summary["Average"])
	assert.Len(t, res.Filtered(), 60)
}

func TestRunStalePageSnapsBack(t *testing.T) {
	res := Run(salesConfig(), State{Page: 9}, salesRows(30))
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Len(t, res.Rows, 25)
}

func TestRunDeterministic(t *testing.T) {
	cfg := salesConfig()
	rows := salesRows(40)
	state := State{Equals: map[string]string{"Customer": "C1"}, Page: 1}
	a := Run(cfg, state, rows)
	b := Run(cfg, state, rows)
	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestRunGroupsMode(t *testing.T) {
	cfg := Config{
		Name:           "stock-in-hand",
		Mode:           ModeGroups,
		GroupColumns:   []string{"Category"},
		TopColumn:      "Godown",
		CascadeColumns: []string{"Category", "Item"},
		CascadeMeasure: "Quantity",
	}
	rows := []Row{
		{"Godown": "Main", "Category": "Steel", "Item": "TMT 8mm", "Quantity": "5"},
		{"Godown": "Main", "Category": "Cement", "Item": "OPC 43", "Quantity": "3"},
	}

	res := Run(cfg, State{}, rows)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Steel", res.Groups[0].Key)
	require.Len(t, res.Options, 2)
	assert.Len(t, res.Options[0], 2)

	expanded := Run(cfg, State{Expanded: true}, rows)
	require.Len(t, expanded.Groups, 1)
	assert.Equal(t, "Main", expanded.Groups[0].Key)
	assert.Equal(t, TopLevel, expanded.Groups[0].Level)
}

func TestRunCascadeSelectionNarrowsGroups(t *testing.T) {
	cfg := Config{
		Mode:           ModeGroups,
		GroupColumns:   []string{"Item"},
		CascadeColumns: []string{"Category", "Item"},
	}
	rows := []Row{
		{"Category": "Steel", "Item": "TMT 8mm"},
		{"Category": "Cement", "Item": "OPC 43"},
	}
	res := Run(cfg, State{Cascade: [][]string{{"Steel"}}}, rows)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "TMT 8mm", res.Groups[0].Key)

	// Level-2 options stay scoped to the level-1 choice.
	require.Len(t, res.Options, 2)
	require.Len(t, res.Options[1], 1)
	assert.Equal(t, "TMT 8mm", res.Options[1][0].Value)
}

func TestRunLedgerMode(t *testing.T) {
	cfg := Config{
		Name:       "godown-item-ledger",
		Mode:       ModeLedger,
		DateColumn: "Date",
	}
	res := Run(cfg, State{Opening: 50}, ledgerRows())
	require.Len(t, res.Days, 3)
	assert.Equal(t, 63.0, res.Days[0].Closing)
	assert.Equal(t, 61.0, res.Days[2].Closing)
	assert.Len(t, res.Filtered(), 4)
}

func TestRunPivotMode(t *testing.T) {
	cfg := Config{
		Name:        "sales-pivot",
		Mode:        ModePivot,
		CountColumn: "Invoice_No",
		Columns: []Column{
			{Key: "Customer", Enabled: true},
			{Key: "Amount", Numeric: true, Enabled: true},
		},
	}
	rows := []Row{
		{"Customer": "Acme", "Amount": "10", "Invoice_No": "I1"},
		{"Customer": "Acme", "Amount": "20", "Invoice_No": "I2"},
	}
	res := Run(cfg, State{}, rows)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 30.0, res.Rows[0]["Amount"])
	assert.Equal(t, 2.0, res.Rows[0][InvoiceCountColumn])
}

func TestExportRowsFlattensGroupMode(t *testing.T) {
	cfg := Config{Mode: ModeGroups, GroupColumns: []string{"Category"}}
	rows := []Row{{"Category": "Steel", "Qty": "1"}}
	res := Run(cfg, State{}, rows)
	flat := ExportRows(cfg, res)
	require.Len(t, flat, 1)
	assert.Equal(t, "Steel", flat[0]["Group 1"])
}

func TestRunDoesNotMutateFetchedRows(t *testing.T) {
	rows := salesRows(5)
	before := make([]Row, len(rows))
	for i, r := range rows {
		before[i] = r.Clone()
	}
	Run(salesConfig(), State{}, rows)
	assert.Equal(t, before, rows)
}
