package services

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateBreakdownExcel(t *testing.T) {
	a := webAppAssessment()
	b := CalculatePricing(a)
	p := GenerateProposal(a, b)

	result, err := GenerateBreakdownExcel(p, b, ExportMeta{QuoteNumber: "Q-2026-001", IssuedDate: "16 Oct 2026"})
	if err != nil {
		t.Fatalf("GenerateBreakdownExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateBreakdownExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Pricing" || sheets[1] != "Schedule" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	title, _ := f.GetCellValue("Pricing", "A1")
	if title != p.Title {
		t.Errorf("title = %q, want %q", title, p.Title)
	}
	first, _ := f.GetCellValue("Pricing", "B5")
	if first != "Base build" {
		t.Errorf("first line item = %q, want Base build", first)
	}
	milestone, _ := f.GetCellValue("Schedule", "A2")
	if milestone != "Deposit" {
		t.Errorf("first milestone = %q, want Deposit", milestone)
	}
}

func TestGenerateLeadsExcel(t *testing.T) {
	leads := []LeadRow{
		{Name: "Ada", Email: "ada@example.com", Status: "new", Message: "=HYPERLINK(\"x\")"},
		{Name: "Grace", Email: "grace@example.com", Status: "qualified"},
	}

	result, err := GenerateLeadsExcel(leads)
	if err != nil {
		t.Fatalf("GenerateLeadsExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Leads")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	msg, _ := f.GetCellValue("Leads", "G2")
	if msg != "'=HYPERLINK(\"x\")" {
		t.Errorf("formula not neutralised: %q", msg)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
