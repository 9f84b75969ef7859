package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Summary is the content of a one-page sales report.
type Summary struct {
	Title       string
	Subtitle    string
	GeneratedAt string
	Figures     [][2]string // label, value
	Headers     []string
	Widths      []float64 // mm, one per header
	Rows        [][]string
}

// WritePDF renders a portrait A4 summary: title block, key figures, then a
// table of rows. Text is translated to cp1252 so the core fonts can be used.
func WritePDF(w io.Writer, s Summary) error {
	if len(s.Widths) != len(s.Headers) {
		return fmt.Errorf("report: %d widths for %d headers", len(s.Widths), len(s.Headers))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(s.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "C", false, 0, "")
	if s.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(s.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr("Generated "+s.GeneratedAt), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, fig := range s.Figures {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, tr(fig[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(fig[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(s.Headers) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(239, 230, 221)
		for i, h := range s.Headers {
			pdf.CellFormat(s.Widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range s.Rows {
			for i := range s.Headers {
				v := ""
				if i < len(row) {
					v = row[i]
				}
				pdf.CellFormat(s.Widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: pdf: %w", err)
	}
	return pdf.Output(w)
}
