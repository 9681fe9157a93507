package app

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the extracted page to a minimal A4 PDF: the title as a
// heading, then the text split on blank lines into paragraphs. Layout is
// intentionally simple.
func WritePDF(page Page, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	if t := strings.TrimSpace(page.Title); t != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, t, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.Ln(2)
	}
	for _, para := range strings.Split(page.Text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pdf.MultiCell(0, 5, para, "", "L", false)
		pdf.Ln(3)
	}
	return pdf.OutputFileAndClose(outPath)
}
