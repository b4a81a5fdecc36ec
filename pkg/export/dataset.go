package export

import (
	"fmt"
	"strings"
)

// Dataset is one table as shown on a list screen. Every row holds one cell
// per header, in header order.
type Dataset struct {
	Title string
	// Subtitle describes the view, for instance the active search.
	Subtitle string
	Headers  []string
	Rows     [][]string
}

func (d Dataset) validate(format Format) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s export requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%s export: row %d has %d cells, want %d", format, i+1, len(row), len(d.Headers))
		}
	}
	return nil
}

// Format names a supported output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Renderer turns a dataset into file bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// ParseFormat accepts a user supplied format name. Empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// RendererFor returns the renderer for the given format.
func RendererFor(f Format) (Renderer, error) {
	switch f {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// Extension is the file suffix for the format.
func (f Format) Extension() string {
	return "." + string(f)
}
