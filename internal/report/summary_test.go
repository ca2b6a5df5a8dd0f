package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeSumAndAvg(t *testing.T) {
	rows := []Row{
		{"Amount": "100"},
		{"Amount": "250.5"},
		{"Amount": "not-a-number"},
	}
	got := Summarize(rows, []SummarySpec{
		{Label: "Total Amount", Column: "Amount", Aggregate: AggregateSum},
		{Label: "Average Amount", Column: "Amount", Aggregate: AggregateAvg},
		{Label: "Count", Aggregate: AggregateCount},
	})
	assert.Equal(t, 350.5, got["Total Amount"])
	assert.InDelta(t, 350.5/3, got["Average Amount"], 1e-9)
	assert.Equal(t, 3.0, got["Count"])
}

func TestSummarizeEmptySetYieldsZero(t *testing.T) {
	got := Summarize(nil, []SummarySpec{
		{Label: "Total", Column: "Amount", Aggregate: AggregateSum},
		{Label: "Average", Column: "Amount", Aggregate: AggregateAvg},
		{Label: "Count", Aggregate: AggregateCount},
	})
	assert.Equal(t, 0.0, got["Total"])
	assert.Equal(t, 0.0, got["Average"], "average of an empty set is 0, not NaN")
	assert.Equal(t, 0.0, got["Count"])
}
