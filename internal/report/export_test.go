package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapForExport(t *testing.T) {
	cols := []Column{
		{Key: SerialColumn, Label: "S.No"},
		{Key: "Invoice_Date", Label: "Date", Filter: FilterDate},
		{Key: "Customer", Label: "Customer"},
		{Key: "Total_Invoice_value", Label: "Amount", AltKey: "Amount", Numeric: true},
	}
	rows := []Row{
		{"Invoice_Date": "2025-03-05T10:00:00", "Customer": "Acme", "Total_Invoice_value": "120.55"},
		{"Invoice_Date": "2025-03-06", "Customer": "Bolt", "Amount": "80"},
	}
	out := MapForExport(rows, cols)
	require.Len(t, out, 2)

	assert.Equal(t, 1, out[0]["S.No"])
	assert.Equal(t, "05/03/2025", out[0]["Date"])
	assert.Equal(t, "Acme", out[0]["Customer"])
	assert.Equal(t, 120.55, out[0]["Amount"])

	assert.Equal(t, 2, out[1]["S.No"])
	assert.Equal(t, 80.0, out[1]["Amount"], "AltKey fallback when primary missing")
}

func TestMapForExportUnparseableDateBlank(t *testing.T) {
	cols := []Column{{Key: "Date", Label: "Date", Filter: FilterDate}}
	out := MapForExport([]Row{{"Date": "???"}}, cols)
	assert.Equal(t, "", out[0]["Date"])
}

func TestFlattenGroupsDepthFirst(t *testing.T) {
	rows := []Row{
		{"Category": "Steel", "Item": "TMT 8mm", "Qty": "1"},
		{"Category": "Steel", "Item": "TMT 12mm", "Qty": "2"},
		{"Category": "Cement", "Item": "OPC 43", "Qty": "3"},
	}
	flat := FlattenGroups(BuildGroups(rows, []string{"Category", "Item"}))
	require.Len(t, flat, 3)

	assert.Equal(t, "Steel", flat[0]["Group 1"])
	assert.Equal(t, "TMT 8mm", flat[0]["Group 2"])
	assert.Equal(t, "Steel", flat[1]["Group 1"])
	assert.Equal(t, "TMT 12mm", flat[1]["Group 2"])
	assert.Equal(t, "Cement", flat[2]["Group 1"])

	// Underlying row fields survive the flattening.
	assert.Equal(t, "1", flat[0]["Qty"])
}

func TestFlattenGroupsTopDimensionColumn(t *testing.T) {
	rows := []Row{
		{"Godown": "Main", "Category": "Steel"},
		{"Category": "Steel"},
	}
	flat := FlattenGroups(BuildGroupsWithTop(rows, "Godown", []string{"Category"}))
	require.Len(t, flat, 2)
	assert.Equal(t, "Main", flat[0]["Godown"])
	assert.Equal(t, UnknownKey, flat[1]["Godown"])
	assert.Equal(t, "Steel", flat[1]["Group 1"])
}

func TestFlattenGroupsDoesNotMutateTree(t *testing.T) {
	rows := []Row{{"Category": "Steel", "Qty": "1"}}
	nodes := BuildGroups(rows, []string{"Category"})
	FlattenGroups(nodes)
	_, has := nodes[0].Rows[0]["Group 1"]
	assert.False(t, has)
}
