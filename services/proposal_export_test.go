package services

import (
	"strings"
	"testing"
)

func TestRenderProposalText(t *testing.T) {
	a := webAppAssessment()
	b := CalculatePricing(a)
	p := GenerateProposal(a, b)
	meta := ExportMeta{StudioName: "Dev Studio", QuoteNumber: "Q-2026-004", IssuedDate: "16 Oct 2026"}

	out := RenderProposalText(p, meta)

	for _, want := range []string{
		strings.ToUpper(p.Title),
		"Prepared for: Grace Hopper, Compiler Co",
		"Quote: Q-2026-004",
		"PROJECT OVERVIEW",
		"Total Investment",
		FormatUSD(b.FinalTotal),
		"Deposit",
		domainServiceMessage,
		"Phase 3: Development (4 weeks)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q", want)
		}
	}
}

func TestRenderProposalText_ValidDaysFallback(t *testing.T) {
	a := minimalAssessment()
	p := GenerateProposal(a, CalculatePricing(a))
	out := RenderProposalText(p, ExportMeta{})
	if !strings.Contains(out, "Valid for: 30 days") {
		t.Error("expected validity fallback line")
	}
	if strings.Contains(out, "Optional features:") {
		t.Error("did not expect optional features section")
	}
}

func TestProposalFilename(t *testing.T) {
	tests := []struct {
		name string
		p    Proposal
		meta ExportMeta
		ext  string
		want string
	}{
		{"company", Proposal{Company: "Acme Inc", ClientName: "Ann"}, ExportMeta{QuoteNumber: "Q-2026-001"}, "txt", "Q-2026-001_Acme-Inc.txt"},
		{"name fallback", Proposal{ClientName: "Ann Lee"}, ExportMeta{QuoteNumber: "Q-2026-002"}, "pdf", "Q-2026-002_Ann-Lee.pdf"},
		{"no quote number", Proposal{ClientName: "Ann"}, ExportMeta{}, "html", "proposal_Ann.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProposalFilename(tt.p, tt.meta, tt.ext); got != tt.want {
				t.Errorf("ProposalFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
