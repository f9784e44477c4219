package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cinescope/hrdash/internal/dashboard"
)

// WriteDashboardXLSX writes one worksheet per table.
func WriteDashboardXLSX(w io.Writer, d *dashboard.Dashboard) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	tables := Tables(d)
	if len(tables) == 0 {
		tables = []Table{{Name: "summary", Header: []string{"Metric", "Value"}}}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, t := range tables {
		sheet := t.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	for c, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
