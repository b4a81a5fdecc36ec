package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	// Landscape A4 minus 10mm margins on each side.
	pdfTableWidth = 277.0
	pdfRowHeight  = 7.0
)

// PDFExporter lays a dataset out as a bordered table on landscape A4 pages,
// repeating the header row on every page.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render builds the document. An empty dataset still prints a "No items" row.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(FormatPDF); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	width := pdfTableWidth / float64(len(data.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(217, 225, 242)
		for _, h := range data.Headers {
			pdf.CellFormat(width, 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "L", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, data.Subtitle, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
	header()

	if len(data.Rows) == 0 {
		pdf.CellFormat(pdfTableWidth, pdfRowHeight, "No items", "1", 1, "C", false, 0, "")
	}
	for _, row := range data.Rows {
		for _, cell := range row {
			pdf.CellFormat(width, pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
