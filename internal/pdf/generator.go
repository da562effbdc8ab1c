package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/proposal-builder/internal/calc"
	"github.com/nurpe/proposal-builder/internal/currency"
	"github.com/nurpe/proposal-builder/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the complete proposal as an A4 document: header, the
// "From" and "To" blocks, the itemized table, and the grand total. Callers
// must pass a gate-checked snapshot; the renderer does not validate.
func (g *Generator) Generate(p model.Proposal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Project Proposal", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, time.Now().Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	addPartyBlock(pdf, g.fontName, "From:", []string{
		p.CompanyName,
		p.CompanyAddress,
		p.CompanyEmail,
		p.CompanyPhone,
		regNoLine(p.BusinessRegNo),
	})
	pdf.Ln(3)
	addPartyBlock(pdf, g.fontName, "To:", []string{
		p.ClientName,
		p.ClientCompany,
		p.ClientAddress,
	})
	pdf.Ln(5)

	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Project: %s", p.ProjectName), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Project Components", "", 1, "L", false, 0, "")

	headers := []string{"Service", "Description", "Rate", "Hours", "Subtotal"}
	colWidths := []float64{36, 64, 28, 18, 28}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, item := range p.Components {
		row := []string{
			item.ServiceName,
			item.Description,
			rateCell(item, p.Currency),
			hoursCell(item),
			currency.Format(item.Subtotal, p.Currency),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(3)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: %s", currency.Format(calc.Total(p.Components), p.Currency)), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, fontName, title string, lines []string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func rateCell(item model.LineItem, currencyCode string) string {
	if item.IsFixedPrice {
		return "Fixed"
	}
	var rate float64
	if item.Rate != nil {
		rate = *item.Rate
	}
	return currency.Format(rate, currencyCode)
}

func hoursCell(item model.LineItem) string {
	if item.IsFixedPrice || item.Hours == nil {
		return "-"
	}
	return strconv.FormatFloat(*item.Hours, 'f', -1, 64)
}

func regNoLine(regNo string) string {
	if regNo == "" {
		return ""
	}
	return fmt.Sprintf("Reg No: %s", regNo)
}
