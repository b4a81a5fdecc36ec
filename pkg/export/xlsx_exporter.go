package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// XLSXExporter renders a dataset into a single-sheet workbook: optional title
// and subtitle rows, a styled and frozen header row, then the data.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(FormatXLSX); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	row := 1
	for _, line := range []string{data.Title, data.Subtitle} {
		if line == "" {
			continue
		}
		if err := f.SetCellValue(xlsxSheet, cellName(1, row), line); err != nil {
			return nil, fmt.Errorf("write xlsx title: %w", err)
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create xlsx header style: %w", err)
	}
	headerRow := row
	if err := f.SetSheetRow(xlsxSheet, cellName(1, headerRow), &data.Headers); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, cellName(1, headerRow), cellName(len(data.Headers), headerRow), headerStyle); err != nil {
		return nil, fmt.Errorf("style xlsx header: %w", err)
	}
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze xlsx header: %w", err)
	}

	for i, record := range data.Rows {
		cells := record
		if err := f.SetSheetRow(xlsxSheet, cellName(1, headerRow+1+i), &cells); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 20); err != nil {
		return nil, fmt.Errorf("size xlsx columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
