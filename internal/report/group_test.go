package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroupsFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{"Category": "Steel", "Item": "TMT 8mm"},
		{"Category": "Cement", "Item": "OPC 43"},
		{"Category": "Steel", "Item": "TMT 12mm"},
	}
	nodes := BuildGroups(rows, []string{"Category"})
	require.Len(t, nodes, 2)
	assert.Equal(t, "Steel", nodes[0].Key)
	assert.Equal(t, "Cement", nodes[1].Key)
	assert.Len(t, nodes[0].Rows, 2)
	assert.Len(t, nodes[1].Rows, 1)
}

func TestBuildGroupsOthersBucketLast(t *testing.T) {
	rows := []Row{
		{"Category": ""},
		{"Category": "Steel"},
		{"Category": nil},
	}
	nodes := BuildGroups(rows, []string{"Category"})
	require.Len(t, nodes, 2)
	assert.Equal(t, "Steel", nodes[0].Key)
	assert.Equal(t, OthersKey, nodes[1].Key)
	assert.Len(t, nodes[1].Rows, 2)
}

func TestBuildGroupsEveryRowLandsExactlyOnce(t *testing.T) {
	rows := []Row{
		{"A": "x", "B": "1"},
		{"A": "x", "B": ""},
		{"A": "y", "B": "1"},
		{"A": "", "B": "2"},
	}
	nodes := BuildGroups(rows, []string{"A", "B"})

	var total int
	for _, n := range nodes {
		total += n.Count()
	}
	assert.Equal(t, len(rows), total)
}

func TestBuildGroupsNested(t *testing.T) {
	rows := []Row{
		{"A": "x", "B": "1", "Qty": "2"},
		{"A": "x", "B": "2", "Qty": "3"},
		{"A": "x", "B": "1", "Qty": "5"},
	}
	nodes := BuildGroups(rows, []string{"A", "B"})
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "1", nodes[0].Children[0].Key)
	assert.Equal(t, 1, nodes[0].Children[0].Level)
	assert.Empty(t, nodes[0].Rows, "interior nodes carry children only")
	assert.Equal(t, 10.0, nodes[0].Rollup("Qty"))
	assert.Equal(t, 7.0, nodes[0].Children[0].Rollup("Qty"))
}

func TestBuildGroupsNoColumnsFlat(t *testing.T) {
	rows := []Row{{"A": "x"}, {"A": "y"}}
	nodes := BuildGroups(rows, nil)
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].Key)
	assert.Len(t, nodes[0].Rows, 2)
}

func TestBuildGroupsWithTopDimension(t *testing.T) {
	rows := []Row{
		{"Godown": "Main", "Category": "Steel"},
		{"Category": "Steel"},
		{"Godown": "Main", "Category": "Cement"},
	}
	nodes := BuildGroupsWithTop(rows, "Godown", []string{"Category"})
	require.Len(t, nodes, 2)

	assert.Equal(t, "Main", nodes[0].Key)
	assert.Equal(t, TopLevel, nodes[0].Level)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, 0, nodes[0].Children[0].Level)

	assert.Equal(t, UnknownKey, nodes[1].Key)
	assert.Equal(t, 1, nodes[1].Count())
}
