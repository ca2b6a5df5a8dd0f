package report

// OthersKey labels the bucket collecting rows whose group column is empty
// or missing at a given level.
const OthersKey = "Others"

// UnknownKey labels the top-dimension bucket for rows missing that field.
const UnknownKey = "Unknown"

// TopLevel is the synthetic level number assigned to a top dimension
// injected above the configured group columns.
const TopLevel = -1

// GroupNode is one node of a recursive grouping tree. Leaf nodes carry the
// rows of their partition; interior nodes carry children only.
type GroupNode struct {
	// Key is the shared column value of the partition.
	Key string `json:"key"`
	// Column is the field this node grouped on.
	Column string `json:"column,omitempty"`
	// Level is the zero-based depth; TopLevel for an injected top dimension.
	Level int `json:"level"`

	Rows     []Row        `json:"rows,omitempty"`
	Children []*GroupNode `json:"children,omitempty"`
}

// BuildGroups recursively partitions rows by the given columns. Keys appear
// in first-seen row order at every level; rows with an empty value for the
// level's column collect under OthersKey, appended after all named keys.
// With no columns the result is a single unnamed leaf holding all rows.
func BuildGroups(rows []Row, columns []string) []*GroupNode {
	return buildGroups(rows, columns, 0)
}

// BuildGroupsWithTop injects topColumn as a dimension above the configured
// group columns. Rows missing the top field fall under UnknownKey.
func BuildGroupsWithTop(rows []Row, topColumn string, columns []string) []*GroupNode {
	keys, byKey := partition(rows, topColumn, UnknownKey)
	out := make([]*GroupNode, 0, len(keys))
	for _, key := range keys {
		node := &GroupNode{Key: key, Column: topColumn, Level: TopLevel}
		if len(columns) == 0 {
			node.Rows = byKey[key]
		} else {
			node.Children = buildGroups(byKey[key], columns, 0)
		}
		out = append(out, node)
	}
	return out
}

// Rollup sums column over the node's subtree.
func (n *GroupNode) Rollup(column string) float64 {
	var total float64
	if len(n.Children) == 0 {
		for _, row := range n.Rows {
			total += Number(row[column])
		}
		return total
	}
	for _, child := range n.Children {
		total += child.Rollup(column)
	}
	return total
}

// Count returns the number of rows under the node's subtree.
func (n *GroupNode) Count() int {
	if len(n.Children) == 0 {
		return len(n.Rows)
	}
	var total int
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

func buildGroups(rows []Row, columns []string, level int) []*GroupNode {
	if level >= len(columns) {
		return []*GroupNode{{Level: level, Rows: rows}}
	}
	column := columns[level]
	keys, byKey := partition(rows, column, OthersKey)
	out := make([]*GroupNode, 0, len(keys))
	for _, key := range keys {
		node := &GroupNode{Key: key, Column: column, Level: level}
		if level == len(columns)-1 {
			node.Rows = byKey[key]
		} else {
			node.Children = buildGroups(byKey[key], columns, level+1)
		}
		out = append(out, node)
	}
	return out
}

// partition splits rows by the column value, keeping first-seen key order
// and routing empty values to fallback, which always sorts last.
func partition(rows []Row, column, fallback string) ([]string, map[string][]Row) {
	keys := make([]string, 0, 8)
	byKey := make(map[string][]Row)
	sawFallback := false
	for _, row := range rows {
		key := Text(row[column])
		if key == "" {
			key = fallback
			if !sawFallback {
				sawFallback = true
			}
			byKey[key] = append(byKey[key], row)
			continue
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], row)
	}
	if sawFallback {
		keys = append(keys, fallback)
	}
	return keys, byKey
}
