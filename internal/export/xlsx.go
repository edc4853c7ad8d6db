// Package export writes extracted shipment records to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

// SheetName is the worksheet holding the records.
const SheetName = "Labels"

var headers = []string{"#", "Order", "Recipient", "Sender"}

// RecordsXLSX returns an XLSX workbook with one row per record, in order.
// Order ids are written as text so long numeric ids keep every digit.
func RecordsXLSX(records []models.ShipmentRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range records {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, i+1)
		write(2, r.Order)
		write(3, r.Recipient)
		write(4, r.Sender)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 6)
	_ = f.SetColWidth(SheetName, "B", "B", 22)
	_ = f.SetColWidth(SheetName, "C", "C", 60)
	_ = f.SetColWidth(SheetName, "D", "D", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
