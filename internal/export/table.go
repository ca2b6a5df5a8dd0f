// Package export renders shaped report rows into downloadable CSV, Excel
// and PDF artifacts and stores async results in Redis.
package export

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/strata-erp/strata-reports/internal/report"
)

// Table is the destination-neutral matrix handed to every file writer:
// a title line, ordered headers and stringified cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Summary lines render under the data in PDF output.
	Summary []SummaryLine
}

// SummaryLine is one label/amount pair shown under an exported table.
type SummaryLine struct {
	Label  string
	Amount float64
}

// inr prints amounts the way the reporting UI does, grouped per the Indian
// numbering system.
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders an amount as Indian-format currency text.
func FormatCurrency(v float64) string {
	return inr.Sprintf("₹%.2f", v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildTable projects shaped rows onto the report's columns, producing the
// header and cell matrix shared by all writers. groupColumns lists extra
// leading columns from group flattening, rendered before the configured
// columns.
func BuildTable(title string, rows []report.Row, columns []report.Column, groupColumns []string) Table {
	mapped := report.MapForExport(rows, columns)

	headers := make([]string, 0, len(groupColumns)+len(columns))
	headers = append(headers, groupColumns...)
	for _, col := range columns {
		headers = append(headers, col.Label)
	}

	out := make([][]string, len(mapped))
	for i, row := range mapped {
		cells := make([]string, 0, len(headers))
		for _, gc := range groupColumns {
			cells = append(cells, report.Text(rows[i][gc]))
		}
		for _, col := range columns {
			cells = append(cells, cellText(row[col.Label]))
		}
		out[i] = cells
	}
	return Table{Title: title, Headers: headers, Rows: out}
}

// BuildSummary converts pipeline summary cards to ordered summary lines.
func BuildSummary(specs []report.SummarySpec, summary map[string]float64) []SummaryLine {
	lines := make([]SummaryLine, 0, len(specs))
	for _, spec := range specs {
		lines = append(lines, SummaryLine{Label: spec.Label, Amount: summary[spec.Label]})
	}
	return lines
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	default:
		return report.Text(val)
	}
}
