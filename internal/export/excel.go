package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// WriteExcel serialises the table to a single-sheet workbook: title cell,
// bold header row, then data rows.
func WriteExcel(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}

	rowNum := 1
	if table.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetCellValue(sheetName, cell, table.Title); err != nil {
			return err
		}
		rowNum += 2
	}

	headerRow := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		headerRow[i] = h
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetSheetRow(sheetName, cell, &headerRow); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(table.Headers), rowNum)
		_ = f.SetCellStyle(sheetName, cell, last, style)
	}
	rowNum++

	for _, row := range table.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return err
		}
		rowNum++
	}

	return f.Write(w)
}
