package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pivotColumns() []Column {
	return []Column{
		{Key: "Customer", Enabled: true},
		{Key: "Product", Enabled: true},
		{Key: "Amount", Numeric: true, Enabled: true},
		{Key: "Quantity", Numeric: true, Enabled: true},
		{Key: "Remarks", Enabled: false},
	}
}

func TestPivotMergesOnEnabledTextColumns(t *testing.T) {
	rows := []Row{
		{"Customer": "Acme", "Product": "Widget", "Amount": "100", "Quantity": "1", "Invoice_No": "INV-1"},
		{"Customer": "Acme", "Product": "Widget", "Amount": "50", "Quantity": "2", "Invoice_No": "INV-2"},
		{"Customer": "Bolt", "Product": "Widget", "Amount": "70", "Quantity": "1", "Invoice_No": "INV-3"},
		{"Customer": "Acme", "Product": "Widget", "Amount": "30", "Quantity": "1", "Invoice_No": "INV-1"},
	}
	out := Pivot(rows, pivotColumns(), "Invoice_No")
	require.Len(t, out, 2)

	acme := out[0]
	assert.Equal(t, "Acme", acme["Customer"])
	assert.Equal(t, 180.0, acme["Amount"])
	assert.Equal(t, 4.0, acme["Quantity"])
	assert.Equal(t, 2.0, acme[InvoiceCountColumn], "repeated invoice numbers count once")

	bolt := out[1]
	assert.Equal(t, "Bolt", bolt["Customer"])
	assert.Equal(t, 70.0, bolt["Amount"])
}

func TestPivotDisabledColumnIgnored(t *testing.T) {
	rows := []Row{
		{"Customer": "Acme", "Product": "Widget", "Amount": "10", "Remarks": "a"},
		{"Customer": "Acme", "Product": "Widget", "Amount": "20", "Remarks": "b"},
	}
	out := Pivot(rows, pivotColumns(), "")
	require.Len(t, out, 1, "disabled Remarks must not split the key")
	assert.Equal(t, 30.0, out[0]["Amount"])
	_, has := out[0][InvoiceCountColumn]
	assert.False(t, has)
}

func TestPivotNoTextColumnsCollapsesToTotals(t *testing.T) {
	cols := []Column{
		{Key: "Amount", Numeric: true, Enabled: true},
	}
	rows := []Row{{"Amount": "1"}, {"Amount": "2"}, {"Amount": "3"}}
	out := Pivot(rows, cols, "")
	require.Len(t, out, 1)
	assert.Equal(t, 6.0, out[0]["Amount"])
}

func TestPivotAltKeyFallback(t *testing.T) {
	cols := []Column{
		{Key: "Customer", Enabled: true},
		{Key: "Total_Invoice_value", AltKey: "Amount", Numeric: true, Enabled: true},
	}
	rows := []Row{
		{"Customer": "Acme", "Amount": "40"},
		{"Customer": "Acme", "Total_Invoice_value": "60"},
	}
	out := Pivot(rows, cols, "")
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0]["Total_Invoice_value"])
}
