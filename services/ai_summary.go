package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const summarySystemPrompt = "You rewrite project summaries for software proposals. " +
	"Keep every fact, never mention prices, timelines or numbers that are not in the input, " +
	"and answer with the rewritten summary only: at most three sentences of plain text."

const summaryTimeout = 20 * time.Second

// SummaryPolisher rewrites a proposal overview summary.
type SummaryPolisher interface {
	PolishSummary(ctx context.Context, a ProjectAssessment, draft string) (string, error)
}

// AnthropicMessager is the slice of the Anthropic client used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicSummarizer polishes summaries with a Claude model.
type AnthropicSummarizer struct {
	messages AnthropicMessager
	model    anthropic.Model
}

// NewAnthropicSummarizer returns nil when apiKey is empty.
func NewAnthropicSummarizer(apiKey, model string) *AnthropicSummarizer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return newAnthropicSummarizer(&c.Messages, model)
}

func newAnthropicSummarizer(m AnthropicMessager, model string) *AnthropicSummarizer {
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &AnthropicSummarizer{messages: m, model: anthropic.Model(model)}
}

func (s *AnthropicSummarizer) PolishSummary(ctx context.Context, a ProjectAssessment, draft string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Client: %s\nProject type: %s\nTarget audience: %s\n\nDraft summary:\n%s",
		a.ClientDisplayName(),
		OptionLabel(ProjectTypeOptions, a.ProjectType),
		a.TargetAudience,
		draft,
	)
	resp, err := s.messages.New(ctx, anthropic.MessageNewParams{
		Model:       s.model,
		MaxTokens:   400,
		System:      []anthropic.TextBlockParam{{Text: summarySystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("anthropic returned an empty summary")
	}
	return out, nil
}

// PolishProposalSummary replaces the overview summary with the polished
// version. On any failure the template summary is kept. Nothing else in the
// proposal is changed.
func PolishProposalSummary(ctx context.Context, polisher SummaryPolisher, a ProjectAssessment, p *Proposal) bool {
	if polisher == nil || p == nil {
		return false
	}
	if s, ok := polisher.(*AnthropicSummarizer); ok && s == nil {
		return false
	}
	polished, err := polisher.PolishSummary(ctx, a, p.Overview.Summary)
	if err != nil {
		log.Printf("ai_summary: keeping template summary for %s: %v", a.Email, err)
		return false
	}
	p.Overview.Summary = polished
	return true
}
