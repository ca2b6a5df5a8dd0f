package report

// Aggregate names a summary reduction over a column.
type Aggregate string

const (
	AggregateSum   Aggregate = "sum"
	AggregateAvg   Aggregate = "avg"
	AggregateCount Aggregate = "count"
)

// SummarySpec requests one aggregate over one column, reported under Label.
type SummarySpec struct {
	Label     string
	Column    string
	Aggregate Aggregate
}

// Summarize reduces the full filtered row set, not the current page. An
// empty row set yields 0 for every aggregate, averages included.
func Summarize(rows []Row, specs []SummarySpec) map[string]float64 {
	out := make(map[string]float64, len(specs))
	for _, spec := range specs {
		out[spec.Label] = summarizeOne(rows, spec)
	}
	return out
}

func summarizeOne(rows []Row, spec SummarySpec) float64 {
	switch spec.Aggregate {
	case AggregateCount:
		return float64(len(rows))
	case AggregateAvg:
		if len(rows) == 0 {
			return 0
		}
		var total float64
		for _, row := range rows {
			total += Number(row[spec.Column])
		}
		return total / float64(len(rows))
	default:
		var total float64
		for _, row := range rows {
			total += Number(row[spec.Column])
		}
		return total
	}
}
