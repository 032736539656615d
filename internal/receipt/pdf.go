package receipt

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Product", 70, "L"},
	{"Unit", 20, "C"},
	{"Qty", 25, "R"},
	{"Unit Price", 35, "R"},
	{"Total", 40, "R"},
}

// PDFOptions tunes the PDF renderer. Font is a TrueType font with Bengali
// glyphs; without one the core Helvetica font is used and characters outside
// cp1252 print as ".".
type PDFOptions struct {
	Font []byte
}

const receiptFontFamily = "receipt"

type pdfDoc struct {
	*fpdf.Fpdf
	family string
	tr     func(string) string
}

func newPDFDoc(opts PDFOptions) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	if len(opts.Font) > 0 {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(receiptFontFamily, style, opts.Font)
		}
		return &pdfDoc{Fpdf: pdf, family: receiptFontFamily, tr: func(s string) string { return s }}
	}
	return &pdfDoc{Fpdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) font(style string, size float64) {
	d.SetFont(d.family, style, size)
}

func (d *pdfDoc) cell(w, h float64, text, border string, ln int, align string) {
	d.CellFormat(w, h, d.tr(text), border, ln, align, false, 0, "")
}

// RenderPDF writes the cash memo as an A4 PDF. The document date is taken
// from the sale so identical input produces identical bytes.
func RenderPDF(r Receipt, w io.Writer, opts PDFOptions) error {
	pdf := newPDFDoc(opts)
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(r.InvoiceNo, false)
	pdf.SetCatalogSort(true)
	if ts, err := time.Parse(timestampLayout, r.Timestamp); err == nil {
		pdf.SetCreationDate(ts)
		pdf.SetModificationDate(ts)
	}
	pdf.AddPage()

	pdf.font("B", 16)
	pdf.cell(0, 8, r.ShopName, "", 1, "C")
	pdf.font("", 10)
	pdf.cell(0, 5, r.Address, "", 1, "C")
	pdf.cell(0, 5, "Mobile: "+r.Mobile, "", 1, "C")
	pdf.cell(0, 5, "Email: "+r.Email, "", 1, "C")
	pdf.Ln(4)

	pdf.font("B", 13)
	pdf.cell(0, 7, r.Title, "", 1, "C")
	pdf.Ln(2)

	pdf.font("", 10)
	pdf.cell(95, 6, "Invoice No: "+r.InvoiceNo, "", 0, "L")
	pdf.cell(95, 6, "Date: "+r.Timestamp, "", 1, "R")
	pdf.cell(95, 6, "Customer: "+r.CustomerName, "", 0, "L")
	pdf.cell(95, 6, "Payment Method: "+r.PaymentMethod.String(), "", 1, "R")
	pdf.Ln(3)

	pdf.font("B", 10)
	for _, col := range pdfColumns {
		pdf.cell(col.width, 7, col.title, "1", 0, "C")
	}
	pdf.Ln(-1)

	pdf.font("", 10)
	for _, row := range r.Rows {
		values := []string{row.Product, row.Unit, row.Qty, row.UnitPrice, row.Total}
		for i, col := range pdfColumns {
			pdf.cell(col.width, 7, values[i], "1", 0, col.align)
		}
		pdf.Ln(-1)
	}

	pdf.font("B", 11)
	pdf.cell(150, 8, "GRAND TOTAL", "1", 0, "R")
	pdf.cell(40, 8, r.GrandTotal, "1", 1, "R")
	if r.Received != "" {
		pdf.font("", 10)
		pdf.cell(150, 6, "Received", "", 0, "R")
		pdf.cell(40, 6, r.Received, "", 1, "R")
		pdf.cell(150, 6, "Change", "", 0, "R")
		pdf.cell(40, 6, r.Change, "", 1, "R")
	}

	pdf.Ln(6)
	y := pdf.GetY()
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Line(10, y, 200, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Ln(3)

	pdf.font("I", 9)
	for _, footer := range r.Footer {
		pdf.cell(0, 5, footer, "", 1, "C")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout receipt pdf: %w", err)
	}
	return pdf.Output(w)
}
