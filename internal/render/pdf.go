package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/marco/workyard/internal/report"
)

// PDFRenderer renders a document model into a paginated A4 PDF. Long tables
// flow across pages via gofpdf's auto page break; rows are never truncated.
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

const (
	pageLeft   = 15.0
	pageWidth  = 180.0 // A4 210mm minus margins
	rowHeight  = 7.0
	headHeight = 8.0
)

// Render produces the PDF bytes for a document.
func (r *PDFRenderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", report.ErrRenderFailure)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 20, pageLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.SetX(pageLeft)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 12, doc.Title, "", 0, "L", false, 0, "")
	pdf.Ln(14)
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(0, 102, 204)
	pdf.Line(pageLeft, pdf.GetY(), pageLeft+pageWidth, pdf.GetY())
	pdf.Ln(6)

	for _, section := range doc.Sections {
		r.addSectionTitle(pdf, section.Title)
		if len(section.Summary) > 0 {
			r.addSummary(pdf, section.Summary)
		}
		if section.Table != nil {
			r.addTable(pdf, section.Table)
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) addSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, title, "", 0, "L", false, 0, "")
	pdf.Ln(9)
}

func (r *PDFRenderer) addSummary(pdf *gofpdf.Fpdf, pairs []report.SummaryPair) {
	pdf.SetFont("Arial", "", 10)
	for _, p := range pairs {
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(60, 6, p.Label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(0, 6, p.Value, "", 0, "L", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(3)
}

func (r *PDFRenderer) addTable(pdf *gofpdf.Fpdf, table *report.Table) {
	if len(table.Headers) == 0 {
		return
	}
	colWidth := pageWidth / float64(len(table.Headers))

	// Header row
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(0, 102, 204)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range table.Headers {
		pdf.CellFormat(colWidth, headHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(headHeight)

	// Data rows; auto page break keeps long tables flowing
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for i, row := range table.Rows {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(248, 249, 250)
		}
		for c := 0; c < len(table.Headers); c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			pdf.CellFormat(colWidth, rowHeight, cell, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(rowHeight)
	}
}
