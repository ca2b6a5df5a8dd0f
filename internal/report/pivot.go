package report

const pivotKeySep = "\x1f"

// InvoiceCountColumn is the synthetic distinct-document count attached to
// pivoted rows.
const InvoiceCountColumn = "Invoice_Count"

// Pivot collapses rows onto the enabled non-numeric columns: rows sharing
// every enabled text value merge into one output row whose enabled numeric
// columns hold sums. When countColumn is non-empty each output row also
// carries the distinct count of that field under InvoiceCountColumn.
// Output rows appear in first-seen order of their composite key. With no
// enabled text columns all input collapses to a single totals row.
func Pivot(rows []Row, columns []Column, countColumn string) []Row {
	var textCols, numCols []Column
	for _, col := range columns {
		if !col.Enabled {
			continue
		}
		if col.Numeric {
			numCols = append(numCols, col)
		} else {
			textCols = append(textCols, col)
		}
	}

	type bucket struct {
		row     Row
		distinct map[string]struct{}
	}
	order := make([]string, 0, 32)
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		key := ""
		for _, col := range textCols {
			key += Text(col.Value(row)) + pivotKeySep
		}
		b, ok := buckets[key]
		if !ok {
			out := make(Row, len(textCols)+len(numCols)+1)
			for _, col := range textCols {
				out[col.Key] = Text(col.Value(row))
			}
			for _, col := range numCols {
				out[col.Key] = float64(0)
			}
			b = &bucket{row: out}
			if countColumn != "" {
				b.distinct = make(map[string]struct{})
			}
			buckets[key] = b
			order = append(order, key)
		}
		for _, col := range numCols {
			b.row[col.Key] = b.row[col.Key].(float64) + Number(col.Value(row))
		}
		if b.distinct != nil {
			if v := Text(row[countColumn]); v != "" {
				b.distinct[v] = struct{}{}
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.distinct != nil {
			b.row[InvoiceCountColumn] = float64(len(b.distinct))
		}
		out = append(out, b.row)
	}
	return out
}
