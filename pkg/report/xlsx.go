package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Table is one worksheet of a workbook: a bold header row followed by data rows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// WriteXLSX renders the tables as sheets of a single workbook, in order.
// The first table becomes the active sheet.
func WriteXLSX(w io.Writer, tables ...Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("report: no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EFE6DD"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
				return fmt.Errorf("report: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return fmt.Errorf("report: new sheet %q: %w", t.Sheet, err)
		}

		header := make([]interface{}, len(t.Headers))
		for j, h := range t.Headers {
			header[j] = h
		}
		if err := f.SetSheetRow(t.Sheet, "A1", &header); err != nil {
			return fmt.Errorf("report: header row: %w", err)
		}
		if len(t.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
			if err := f.SetCellStyle(t.Sheet, "A1", last, bold); err != nil {
				return fmt.Errorf("report: header style: %w", err)
			}
			lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
			_ = f.SetColWidth(t.Sheet, "A", lastCol, 18)
		}

		for r, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(t.Sheet, cell, &row); err != nil {
				return fmt.Errorf("report: row %d: %w", r+2, err)
			}
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}
