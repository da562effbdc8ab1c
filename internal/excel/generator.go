package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/proposal-builder/internal/calc"
	"github.com/nurpe/proposal-builder/internal/currency"
	"github.com/nurpe/proposal-builder/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the proposal as a single-sheet workbook: a summary block
// followed by the itemized table and grand total.
func (g *Generator) Generate(p model.Proposal) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Proposal"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Project")
	set("B1", p.ProjectName)
	set("A2", "Date")
	set("B2", time.Now().Format("2006-01-02"))
	set("A3", "From")
	set("B3", p.CompanyName)
	set("A4", "To")
	set("B4", fmt.Sprintf("%s, %s", p.ClientName, p.ClientCompany))
	set("A5", "Currency")
	set("B5", p.Currency)

	tableRow := 7
	headers := []string{"Service", "Description", "Rate", "Hours", "Subtotal"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, item := range p.Components {
		row := tableRow + 1 + i
		values := []interface{}{
			item.ServiceName,
			item.Description,
			rateValue(item),
			hoursValue(item),
			item.Subtotal,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			set(cell, value)
		}
	}

	totalRow := tableRow + len(p.Components) + 2
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	set(cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(5, totalRow)
	set(cell, currency.Format(calc.Total(p.Components), p.Currency))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 48)
	_ = file.SetColWidth(sheet, "C", "E", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rateValue(item model.LineItem) interface{} {
	if item.IsFixedPrice {
		return "Fixed"
	}
	if item.Rate == nil {
		return ""
	}
	return *item.Rate
}

func hoursValue(item model.LineItem) interface{} {
	if item.IsFixedPrice || item.Hours == nil {
		return "-"
	}
	return *item.Hours
}
