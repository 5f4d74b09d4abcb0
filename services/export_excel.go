package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const usdNumFmt = `"$"#,##0.00`

// LeadRow is one CRM contact in the leads export.
type LeadRow struct {
	Name      string
	Email     string
	Company   string
	Status    string
	Source    string
	Budget    string
	Message   string
	CreatedAt string
}

type excelStyles struct {
	title, subtitle, header, body, money, label, total int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	var err error
	usd := usdNumFmt

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 11, Color: "#555555"}}); err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}
	// Column header style: bold, white text, charcoal background, centered.
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	s.body, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return s, fmt.Errorf("create body style: %w", err)
	}
	s.money, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &usd,
	})
	if err != nil {
		return s, fmt.Errorf("create money style: %w", err)
	}
	s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, fmt.Errorf("create label style: %w", err)
	}
	s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
		CustomNumFmt: &usd,
	})
	if err != nil {
		return s, fmt.Errorf("create total style: %w", err)
	}
	return s, nil
}

// GenerateBreakdownExcel writes the pricing breakdown behind a proposal to
// an xlsx workbook and returns the file contents.
func GenerateBreakdownExcel(p Proposal, b PricingBreakdown, meta ExportMeta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Pricing"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D"}
	widths := []float64{6, 44, 16, 18}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.MergeCell(sheetName, "A1", "D1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(p.Title))
	f.SetCellStyle(sheetName, "A1", "D1", st.title)

	subtitle := "Prepared for: " + clientLine(p)
	if meta.QuoteNumber != "" {
		subtitle = meta.QuoteNumber + "  |  " + subtitle
	}
	if meta.IssuedDate != "" {
		subtitle += "  |  " + meta.IssuedDate
	}
	if err := f.MergeCell(sheetName, "A2", "D2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(subtitle))
	f.SetCellStyle(sheetName, "A2", "D2", st.subtitle)

	headers := []string{"#", "Item", "Category", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A4", "D4", st.header)

	type line struct {
		label, category string
		amount          float64
	}
	lines := []line{{"Base build", "base", b.BasePrice}}
	for _, fl := range b.Features {
		label := fl.Name
		if fl.Optional {
			label += " (optional)"
		}
		lines = append(lines, line{label, fl.Category, fl.Price})
	}
	lines = append(lines,
		line{"Additional platforms", "platform", b.PlatformCost},
		line{"Design", "design", b.DesignCost},
		line{"Integrations", "integration", b.IntegrationCost},
	)

	row := 5
	for i, l := range lines {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+r, i+1)
		f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(l.label))
		f.SetCellValue(sheetName, "C"+r, l.category)
		f.SetCellValue(sheetName, "D"+r, l.amount)
		f.SetCellStyle(sheetName, "A"+r, "C"+r, st.body)
		f.SetCellStyle(sheetName, "D"+r, "D"+r, st.money)
		row++
	}

	row++
	summary := []struct {
		label string
		value any
		style int
	}{
		{"Subtotal:", b.Subtotal, st.total},
		{"Complexity multiplier:", fmt.Sprintf("x%.2f (%s)", b.Complexity.Factor, b.Complexity.Level), st.label},
		{"Timeline multiplier:", fmt.Sprintf("x%.2f (%s)", b.Timeline.Factor, b.Timeline.Label), st.label},
		{"Total Investment:", b.FinalTotal, st.total},
		{"Estimated minimum:", b.EstimatedRange.Min, st.total},
		{"Estimated maximum:", b.EstimatedRange.Max, st.total},
	}
	for _, s := range summary {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "C"+r, s.label)
		f.SetCellStyle(sheetName, "C"+r, "C"+r, st.label)
		f.SetCellValue(sheetName, "D"+r, s.value)
		f.SetCellStyle(sheetName, "D"+r, "D"+r, s.style)
		row++
	}

	if err := addScheduleSheet(f, p, st); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func addScheduleSheet(f *excelize.File, p Proposal, st excelStyles) error {
	const sheet = "Schedule"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create schedule sheet: %w", err)
	}
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "C", 18)
	f.SetColWidth(sheet, "D", "D", 36)

	for i, h := range []string{"Milestone", "Percent", "Amount", "Due"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "D1", st.header)

	for i, m := range p.PaymentSchedule {
		r := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+r, m.Label)
		f.SetCellValue(sheet, "B"+r, FormatPercent(m.Percent/100))
		f.SetCellValue(sheet, "C"+r, m.Amount)
		f.SetCellValue(sheet, "D"+r, m.Due)
		f.SetCellStyle(sheet, "A"+r, "B"+r, st.body)
		f.SetCellStyle(sheet, "C"+r, "C"+r, st.money)
		f.SetCellStyle(sheet, "D"+r, "D"+r, st.body)
	}

	start := len(p.PaymentSchedule) + 3
	for i, ph := range p.Timeline.Phases {
		r := fmt.Sprintf("%d", start+i)
		f.SetCellValue(sheet, "A"+r, ph.Name)
		f.SetCellValue(sheet, "B"+r, pluralWeeks(ph.Weeks))
	}
	return nil
}

// GenerateLeadsExcel exports CRM contacts to an xlsx workbook.
func GenerateLeadsExcel(leads []LeadRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	headers := []string{"Name", "Email", "Company", "Status", "Source", "Budget", "Message", "Created"}
	widths := []float64{24, 30, 24, 12, 14, 14, 60, 20}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell, h)
		if err := f.SetColWidth(sheetName, colName, colName, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", colName, err)
		}
	}
	f.SetCellStyle(sheetName, "A1", "H1", st.header)

	for i, l := range leads {
		values := []string{l.Name, l.Email, l.Company, l.Status, l.Source, l.Budget, l.Message, l.CreatedAt}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheetName, cell, sanitizeExcelCell(v))
		}
		first, _ := excelize.CoordinatesToCellName(1, i+2)
		last, _ := excelize.CoordinatesToCellName(len(headers), i+2)
		f.SetCellStyle(sheetName, first, last, st.body)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
