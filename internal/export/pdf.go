package export

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/yegors/flightstats/internal/summary"
)

// Page geometry, in mm (A4 landscape)
const (
	pageMargin  = 10.0
	pageHeight  = 210.0
	titleHeight = 10.0
	rowHeight   = 7.0
)

// WritePDF writes a one-page report: title, metric table and the chart image
func WritePDF(path, sourcePath string, s *summary.Summary, chartPNG []byte) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	drawTitle(pdf, "Flight Report: "+filepath.Base(sourcePath))

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range Rows(s) {
		pdf.CellFormat(70, rowHeight, tr(row.Metric), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, rowHeight, tr(row.Formatted()), "1", 1, "R", false, 0, "")
	}

	if len(chartPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(chartPNG))

		top := pdf.GetY() + 4
		height := pageHeight - pageMargin - top
		// Width 0 keeps the image's aspect ratio
		pdf.ImageOptions("chart", pageMargin, top, 0, height, false, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf %s: %w", path, err)
	}
	return nil
}

func drawTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, titleHeight, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}
