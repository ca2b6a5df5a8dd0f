package report

import "fmt"

// SerialColumn is the synthetic one-based serial number emitted at export
// and render time. It never exists on fetched rows.
const SerialColumn = "sno"

// exportDayFormat renders date columns for export files.
const exportDayFormat = "02/01/2006"

// MapForExport projects rows onto the given columns for file output: keys
// become labels, SerialColumn becomes the one-based row index, AltKey
// fallback applies, date columns render as DD/MM/YYYY and numeric columns
// stay un-rounded float64.
func MapForExport(rows []Row, columns []Column) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		mapped := make(Row, len(columns))
		for _, col := range columns {
			if col.Key == SerialColumn {
				mapped[col.Label] = i + 1
				continue
			}
			v := col.Value(row)
			switch {
			case col.Filter == FilterDate:
				if d, ok := Day(v); ok {
					mapped[col.Label] = d.Format(exportDayFormat)
				} else {
					mapped[col.Label] = ""
				}
			case col.Numeric:
				mapped[col.Label] = Number(v)
			default:
				mapped[col.Label] = Text(v)
			}
		}
		out[i] = mapped
	}
	return out
}

// GroupColumnLabel names the flattened export column carrying a grouping
// level's key. The injected top dimension keeps its own name.
func GroupColumnLabel(level int) string {
	if level == TopLevel {
		return "Godown"
	}
	return fmt.Sprintf("Group %d", level+1)
}

// FlattenGroups walks a grouping tree depth-first and returns leaf rows
// with their ancestor keys attached under GroupColumnLabel columns, ready
// for MapForExport. Tree order is preserved.
func FlattenGroups(nodes []*GroupNode) []Row {
	var out []Row
	var walk func(node *GroupNode, ancestors Row)
	walk = func(node *GroupNode, ancestors Row) {
		scope := ancestors
		if node.Key != "" || node.Column != "" {
			scope = ancestors.Clone()
			scope[GroupColumnLabel(node.Level)] = node.Key
		}
		for _, child := range node.Children {
			walk(child, scope)
		}
		for _, row := range node.Rows {
			flat := row.Clone()
			for k, v := range scope {
				flat[k] = v
			}
			out = append(out, flat)
		}
	}
	for _, node := range nodes {
		walk(node, Row{})
	}
	return out
}
