package services

import (
	"fmt"
	"math"
	"strings"
)

// Proposal is the client-facing document assembled from an assessment and its
// pricing breakdown. It is stored as JSON on the quote record.
type Proposal struct {
	Title           string             `json:"title"`
	ClientName      string             `json:"clientName"`
	Company         string             `json:"company"`
	Overview        ProposalOverview   `json:"overview"`
	Scope           ProposalScope      `json:"scope"`
	Timeline        ProposalTimeline   `json:"timeline"`
	Deliverables    []string           `json:"deliverables"`
	Investment      ProposalInvestment `json:"investment"`
	PaymentSchedule []PaymentMilestone `json:"paymentSchedule"`
	Expectations    Expectations       `json:"expectations"`
	ValidDays       int                `json:"validDays"`
}

type ProposalOverview struct {
	Summary string   `json:"summary"`
	Goals   []string `json:"goals"`
}

type ScopeItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ProposalScope struct {
	Included     []ScopeItem `json:"included"`
	Optional     []ScopeItem `json:"optional"`
	Platforms    []string    `json:"platforms"`
	DesignLevel  string      `json:"designLevel"`
	Integrations []string    `json:"integrations"`
}

type TimelinePhase struct {
	Name         string   `json:"name"`
	Weeks        int      `json:"weeks"`
	Deliverables []string `json:"deliverables"`
}

type ProposalTimeline struct {
	Preference string          `json:"preference"`
	TotalWeeks int             `json:"totalWeeks"`
	Phases     []TimelinePhase `json:"phases"`
}

type ProposalInvestment struct {
	Total     float64          `json:"total"`
	Range     PriceRange       `json:"range"`
	LineItems []InvestmentLine `json:"lineItems"`
	Currency  string           `json:"currency"`
}

type InvestmentLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type PaymentMilestone struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
	Due     string  `json:"due"`
}

type Expectations struct {
	Client []string `json:"client"`
	Studio []string `json:"studio"`
	Notes  []string `json:"notes"`
}

// ProposalValidDays is how long a quote stays valid after it is issued.
const ProposalValidDays = 30

const (
	domainServiceMessage  = "Domain registration and DNS configuration are included; the domain is registered in your name."
	hostingServiceMessage = "Managed hosting is set up for launch; the first 12 months of hosting are billed separately at cost."
)

var phaseTemplate = []struct {
	name         string
	share        float64
	deliverables []string
}{
	{"Discovery", 0.15, []string{"Requirements workshop", "Technical specification", "Project plan"}},
	{"Design", 0.20, []string{"Wireframes", "Visual design", "Clickable prototype"}},
	{"Development", 0.40, []string{"Feature implementation", "Integrations", "Weekly demo builds"}},
	{"Testing & QA", 0.15, []string{"Test plan", "Cross-device testing", "Bug fixing"}},
	{"Launch", 0.10, []string{"Production deployment", "Handover & training", "Post-launch support window"}},
}

// developmentPhase indexes phaseTemplate.
const developmentPhase = 2

var paymentTemplate = []struct {
	label string
	share float64
	due   string
}{
	{"Deposit", 0.30, "On signing"},
	{"Design approval", 0.40, "At sign-off of the design phase"},
	{"Launch", 0.30, "On production launch"},
}

// GenerateProposal assembles the proposal document. Same inputs always give
// the same document.
func GenerateProposal(a ProjectAssessment, b PricingBreakdown) Proposal {
	return defaultRateCard.GenerateProposal(a, b)
}

func (rc *RateCard) GenerateProposal(a ProjectAssessment, b PricingBreakdown) Proposal {
	typeLabel := OptionLabel(ProjectTypeOptions, a.ProjectType)

	p := Proposal{
		Title:      fmt.Sprintf("%s Proposal for %s", typeLabel, a.ClientDisplayName()),
		ClientName: a.Name,
		Company:    a.Company,
		ValidDays:  ProposalValidDays,
	}

	p.Overview = buildOverview(a, typeLabel)
	p.Scope = buildScope(a, b)
	p.Timeline = rc.buildTimeline(a, len(b.Features))
	p.Deliverables = buildDeliverables(a, b)
	p.Investment = buildInvestment(b)
	p.PaymentSchedule = buildPaymentSchedule(b.FinalTotal)
	p.Expectations = buildExpectations(a)

	return p
}

func buildOverview(a ProjectAssessment, typeLabel string) ProposalOverview {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is looking for a %s", a.ClientDisplayName(), strings.ToLower(typeLabel))
	if len(a.Platforms) > 0 {
		fmt.Fprintf(&sb, " delivered on %s", joinLabels(PlatformOptions, a.Platforms))
	}
	sb.WriteString(". ")
	sb.WriteString(ensureSentence(a.Description))
	if a.TargetAudience != "" {
		sb.WriteString(" The primary audience is ")
		sb.WriteString(strings.TrimSuffix(a.TargetAudience, "."))
		sb.WriteString(".")
	}

	goals := []string{
		fmt.Sprintf("Launch a production-ready %s", strings.ToLower(typeLabel)),
		fmt.Sprintf("Deliver a %s experience", strings.ToLower(OptionLabel(DesignStyleOptions, a.DesignStyle))),
	}
	if len(a.MustHaveFeatures) > 0 {
		goals = append(goals, fmt.Sprintf("Ship %d must-have features in the first release", len(a.MustHaveFeatures)))
	}
	if len(a.Integrations) > 0 {
		goals = append(goals, fmt.Sprintf("Connect %s", strings.Join(a.Integrations, ", ")))
	}

	return ProposalOverview{Summary: sb.String(), Goals: goals}
}

func buildScope(a ProjectAssessment, b PricingBreakdown) ProposalScope {
	s := ProposalScope{
		Included:     []ScopeItem{},
		Optional:     []ScopeItem{},
		DesignLevel:  OptionLabel(DesignStyleOptions, a.DesignStyle),
		Integrations: append([]string{}, a.Integrations...),
	}
	for _, p := range a.Platforms {
		s.Platforms = append(s.Platforms, OptionLabel(PlatformOptions, p))
	}
	for _, f := range b.Features {
		item := ScopeItem{Name: f.Name, Category: f.Category}
		if f.Optional {
			s.Optional = append(s.Optional, item)
		} else {
			s.Included = append(s.Included, item)
		}
	}
	return s
}

func (rc *RateCard) buildTimeline(a ProjectAssessment, featureCount int) ProposalTimeline {
	tl := rc.Timeline[a.Timeline]
	scale := tl.WeeksScale
	if scale == 0 {
		scale = 1
	}
	raw := (rc.BaseWeeks[a.ProjectType] + 0.5*float64(featureCount)) * scale

	t := ProposalTimeline{
		Preference: tl.Label,
		TotalWeeks: int(math.Ceil(raw - 1e-9)),
	}
	sum := 0
	for _, ph := range phaseTemplate {
		weeks := int(math.Round(float64(t.TotalWeeks) * ph.share))
		if weeks < 1 {
			weeks = 1
		}
		sum += weeks
		t.Phases = append(t.Phases, TimelinePhase{
			Name:         ph.name,
			Weeks:        weeks,
			Deliverables: ph.deliverables,
		})
	}

	// Development absorbs the rounding remainder, keeping its one-week floor.
	dev := &t.Phases[developmentPhase]
	adjusted := max(dev.Weeks+t.TotalWeeks-sum, 1)
	sum += adjusted - dev.Weeks
	dev.Weeks = adjusted

	// The floors can still push the phases past a very short estimate.
	if sum > t.TotalWeeks {
		t.TotalWeeks = sum
	}
	return t
}

func buildDeliverables(a ProjectAssessment, b PricingBreakdown) []string {
	d := []string{
		"Source code in a private repository transferred to you at launch",
		fmt.Sprintf("%s design files", OptionLabel(DesignStyleOptions, a.DesignStyle)),
	}
	for _, p := range a.Platforms {
		d = append(d, fmt.Sprintf("%s build", OptionLabel(PlatformOptions, p)))
	}
	for _, f := range b.Features {
		if !f.Optional {
			d = append(d, f.Name)
		}
	}
	d = append(d, "Technical documentation and deployment guide")
	return d
}

func buildInvestment(b PricingBreakdown) ProposalInvestment {
	inv := ProposalInvestment{
		Total:    b.FinalTotal,
		Range:    b.EstimatedRange,
		Currency: b.Currency,
		LineItems: []InvestmentLine{
			{Label: "Base build", Amount: b.BasePrice},
		},
	}
	for _, f := range b.Features {
		label := f.Name
		if f.Optional {
			label += " (optional)"
		}
		inv.LineItems = append(inv.LineItems, InvestmentLine{Label: label, Amount: f.Price})
	}
	if b.PlatformCost > 0 {
		inv.LineItems = append(inv.LineItems, InvestmentLine{Label: "Additional platforms", Amount: b.PlatformCost})
	}
	if b.DesignCost > 0 {
		inv.LineItems = append(inv.LineItems, InvestmentLine{Label: "Design", Amount: b.DesignCost})
	}
	if b.IntegrationCost > 0 {
		inv.LineItems = append(inv.LineItems, InvestmentLine{Label: "Integrations", Amount: b.IntegrationCost})
	}
	return inv
}

// buildPaymentSchedule splits total into the fixed milestones. The last
// milestone takes the rounding remainder so the amounts add up to total.
func buildPaymentSchedule(total float64) []PaymentMilestone {
	schedule := make([]PaymentMilestone, 0, len(paymentTemplate))
	var allocated float64
	for i, m := range paymentTemplate {
		amount := math.Round(total * m.share)
		if i == len(paymentTemplate)-1 {
			amount = total - allocated
		}
		allocated += amount
		schedule = append(schedule, PaymentMilestone{
			Label:   m.label,
			Percent: m.share * 100,
			Amount:  amount,
			Due:     m.due,
		})
	}
	return schedule
}

func buildExpectations(a ProjectAssessment) Expectations {
	e := Expectations{
		Client: []string{
			"Provide content, brand assets and account access within the first week",
			"Name a single decision-maker for approvals",
			"Give feedback on each milestone within 3 business days",
		},
		Studio: []string{
			"Weekly progress update and demo",
			"Shared project board with current status",
			"30 days of post-launch bug fixes",
		},
		Notes: []string{},
	}
	if a.NeedsDomain {
		e.Notes = append(e.Notes, domainServiceMessage)
	}
	if a.NeedsHosting {
		e.Notes = append(e.Notes, hostingServiceMessage)
	}
	if a.Timeline == "rush" || a.Timeline == "urgent" {
		e.Notes = append(e.Notes, "The accelerated schedule depends on feedback arriving within 1 business day.")
	}
	if a.AdditionalNotes != "" {
		e.Notes = append(e.Notes, "Client notes: "+a.AdditionalNotes)
	}
	return e
}

func joinLabels(opts []Option, values []string) string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = OptionLabel(opts, v)
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
