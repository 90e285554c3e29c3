package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter exports rows to an XLSX workbook.
type ExcelExporter struct {
	sheetName string
}

// NewExcelExporter creates an Excel exporter.
func NewExcelExporter(sheetName string) *ExcelExporter {
	if sheetName == "" {
		sheetName = "Reports"
	}
	return &ExcelExporter{sheetName: sheetName}
}

// Export writes a styled header row plus the data rows to w.
func (e *ExcelExporter) Export(w io.Writer, columns []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", e.sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(e.sheetName, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(e.sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(e.sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
