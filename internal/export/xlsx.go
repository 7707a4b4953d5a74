package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/poledger/invoice-match/internal/batch"
)

// WriteXLSX writes the result table as an XLSX workbook with the same columns
// as the CSV output.
func WriteXLSX(records []batch.Record, path string) error {
	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		for j, v := range row(r) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // invoice number
	_ = f.SetColWidth(sheet, "B", "B", 24) // vendor
	_ = f.SetColWidth(sheet, "C", "D", 14) // date, total
	_ = f.SetColWidth(sheet, "E", "E", 48) // file
	_ = f.SetColWidth(sheet, "F", "F", 10) // matched

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
