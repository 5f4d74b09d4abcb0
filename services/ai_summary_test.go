package services

import (
	"context"
	"errors"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakePolisher struct {
	out string
	err error
}

func (f fakePolisher) PolishSummary(ctx context.Context, a ProjectAssessment, draft string) (string, error) {
	return f.out, f.err
}

type fakeMessager struct {
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessager) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{}, nil
}

func TestPolishProposalSummary(t *testing.T) {
	a := webAppAssessment()
	b := CalculatePricing(a)

	tests := []struct {
		name     string
		polisher SummaryPolisher
		wantOK   bool
	}{
		{"no polisher", nil, false},
		{"typed nil summarizer", (*AnthropicSummarizer)(nil), false},
		{"failure keeps template", fakePolisher{err: errors.New("rate limited")}, false},
		{"success replaces summary", fakePolisher{out: "Polished."}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GenerateProposal(a, b)
			original := p.Overview.Summary
			total := p.Investment.Total

			ok := PolishProposalSummary(context.Background(), tt.polisher, a, &p)
			if ok != tt.wantOK {
				t.Fatalf("PolishProposalSummary() = %v, want %v", ok, tt.wantOK)
			}
			if ok && p.Overview.Summary != "Polished." {
				t.Errorf("Summary = %q", p.Overview.Summary)
			}
			if !ok && p.Overview.Summary != original {
				t.Errorf("summary changed on failure: %q", p.Overview.Summary)
			}
			if p.Investment.Total != total {
				t.Errorf("investment total changed: %v", p.Investment.Total)
			}
		})
	}
}

func TestAnthropicSummarizer_Errors(t *testing.T) {
	if NewAnthropicSummarizer("  ", "") != nil {
		t.Error("expected nil summarizer without an API key")
	}

	m := &fakeMessager{err: errors.New("boom")}
	s := newAnthropicSummarizer(m, "")
	if _, err := s.PolishSummary(context.Background(), minimalAssessment(), "draft"); err == nil {
		t.Error("expected transport error")
	}
	if m.params.Model != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("model = %q", m.params.Model)
	}

	empty := newAnthropicSummarizer(&fakeMessager{}, "claude-test")
	if _, err := empty.PolishSummary(context.Background(), minimalAssessment(), "draft"); err == nil {
		t.Error("expected error for empty response")
	}
}
