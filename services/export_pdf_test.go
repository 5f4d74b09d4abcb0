package services

import (
	"testing"
)

func TestGenerateProposalPDF(t *testing.T) {
	a := webAppAssessment()
	p := GenerateProposal(a, CalculatePricing(a))

	result, err := GenerateProposalPDF(p, ExportMeta{StudioName: "Dev Studio", QuoteNumber: "Q-2026-001", IssuedDate: "16 Oct 2026"})
	if err != nil {
		t.Fatalf("GenerateProposalPDF() error = %v", err)
	}
	if len(result) < 5 {
		t.Fatal("GenerateProposalPDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGenerateProposalPDF_MinimalProposal(t *testing.T) {
	a := minimalAssessment()
	p := GenerateProposal(a, CalculatePricing(a))

	result, err := GenerateProposalPDF(p, ExportMeta{})
	if err != nil {
		t.Fatalf("GenerateProposalPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateProposalPDF() returned empty bytes")
	}
}
