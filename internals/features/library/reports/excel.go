package reports

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// NewReport builds a single-sheet workbook: one header row, then a row per
// record, in the given column order.
func NewReport(headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Filename produces a unique download name, e.g. report-<uuid>-borrowings.xlsx.
func Filename(name string) string {
	return fmt.Sprintf("report-%s-%s.xlsx", uuid.NewString(), name)
}
