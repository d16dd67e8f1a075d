// Package export renders saved quotes as PDF documents.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yazoosa/printstation/internal/quotes"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	qrSize       = 24.0
	rowHeight    = 6.0
)

// QuotePDF renders a saved quote into a PDF document and returns its bytes.
// All monetary figures come from the stored quote; nothing is recomputed here.
func QuotePDF(q quotes.SavedQuote) ([]byte, error) {
	if len(q.Items) == 0 {
		return nil, fmt.Errorf("quote %s has no items to render", q.Reference)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	if err := renderHeader(pdf, q); err != nil {
		return nil, err
	}
	y := renderCustomerBlock(pdf, q.Customer, marginTop+qrSize+10)
	y = renderItemsTable(pdf, q.Items, y+6)
	y = renderTotals(pdf, q.Totals, y+4)

	if q.Notes != "" {
		renderNotes(pdf, q.Notes, y+6)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Thank you for your business. Quote valid for 30 days.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportQuotePDF renders the quote and writes it to path.
func ExportQuotePDF(path string, q quotes.SavedQuote) error {
	data, err := QuotePDF(q)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// renderHeader draws the title, quote reference, date and a QR code that
// encodes the quote reference for quick lookup at the counter.
func renderHeader(pdf *fpdf.Fpdf, q quotes.SavedQuote) error {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-qrSize, 9, "Quotation", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, marginTop+10)
	pdf.CellFormat(60, 6, q.Reference, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, marginTop+16)
	pdf.CellFormat(90, 5, fmt.Sprintf("Date: %s | Status: %s", shortDate(q.DateCreated), q.Status), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	qrPNG, err := qrcode.Encode(q.Reference, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate reference qr code: %w", err)
	}
	imgName := "qr_" + q.Reference
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.Line(marginLeft, marginTop+qrSize+4, pageWidth-marginRight, marginTop+qrSize+4)

	return nil
}

// renderCustomerBlock draws the customer contact details and returns the y
// position below the block.
func renderCustomerBlock(pdf *fpdf.Fpdf, c quotes.Customer, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(60, 5, "Prepared for:", "", 1, "L", false, 0, "")
	y += 6

	lines := []string{strings.TrimSpace(c.Name + " " + c.Surname)}
	if c.CompanyName != "" {
		lines = append(lines, c.CompanyName)
	}
	lines = append(lines, c.Email)
	if c.Phone != "" {
		lines = append(lines, c.Phone)
	}
	if addr := customerAddress(c); addr != "" {
		lines = append(lines, addr)
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range lines {
		if line == "" {
			continue
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(120, 5, line, "", 1, "L", false, 0, "")
		y += 5
	}
	return y
}

// customerAddress joins the non-empty address parts into a single line.
func customerAddress(c quotes.Customer) string {
	parts := []string{c.ComplexOrBuilding, c.StreetAddress, c.Area, c.City, c.PostalCode}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// renderItemsTable draws the quote line items and returns the y position
// below the table.
func renderItemsTable(pdf *fpdf.Fpdf, items []quotes.Item, y float64) float64 {
	colWidths := []float64{88, 18, 20, 27, 27}
	headers := []string{"Description", "Qty", "Sheets", "Price", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += rowHeight

	pdf.SetFont("Helvetica", "", 9)
	for i, item := range items {
		sheets := "-"
		if item.Layout != nil {
			sheets = fmt.Sprintf("%d", item.Layout.SheetsRequired)
		}
		row := []string{
			item.Description,
			fmt.Sprintf("%d", item.Quantity),
			sheets,
			fmt.Sprintf("R %.2f", item.Price),
			fmt.Sprintf("R %.2f", item.Total),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		x = marginLeft
		for j, cell := range row {
			align := "R"
			if j == 0 {
				align = "L"
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, align, true, 0, "")
			x += colWidths[j]
		}
		y += rowHeight

		// Layout annotation beneath the row, when present.
		if item.Layout != nil {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.SetTextColor(100, 100, 100)
			pdf.SetXY(marginLeft+2, y)
			note := fmt.Sprintf("%s (%s)", item.Layout.OptimalLayout(), item.Layout.LayoutDetails())
			pdf.CellFormat(colWidths[0]-2, 4, note, "", 0, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 9)
			y += 4.5
		}
	}
	return y
}

// renderTotals draws the totals block right-aligned and returns the y
// position below it.
func renderTotals(pdf *fpdf.Fpdf, t quotes.Totals, y float64) float64 {
	labelW, valueW := 45.0, 27.0
	x := pageWidth - marginRight - labelW - valueW

	type totalRow struct {
		label string
		value string
		bold  bool
	}

	rows := []totalRow{{"Subtotal", fmt.Sprintf("R %.2f", t.Subtotal), false}}
	if t.SubtotalAfterDiscount != nil {
		discount := t.Subtotal - *t.SubtotalAfterDiscount
		rows = append(rows,
			totalRow{"Discount", fmt.Sprintf("- R %.2f", discount), false},
			totalRow{"After discount", fmt.Sprintf("R %.2f", *t.SubtotalAfterDiscount), false},
		)
	}
	rows = append(rows,
		totalRow{"VAT (15%)", fmt.Sprintf("R %.2f", t.VAT), false},
		totalRow{"Total", fmt.Sprintf("R %.2f", t.Total), true},
	)

	for _, row := range rows {
		if row.bold {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(labelW, rowHeight, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, rowHeight, row.value, "", 0, "R", false, 0, "")
		y += rowHeight
	}
	return y
}

// renderNotes draws the free-form notes block.
func renderNotes(pdf *fpdf.Fpdf, notes string, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 5, "Notes", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, y+6)
	pdf.MultiCell(contentWidth, 4.5, notes, "", "L", false)
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
