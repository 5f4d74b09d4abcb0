package services

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestGenerateProposal_WebApp(t *testing.T) {
	a := webAppAssessment()
	b := CalculatePricing(a)
	p := GenerateProposal(a, b)

	if p.Title != "Web Application Proposal for Compiler Co" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.Contains(p.Overview.Summary, "Compiler Co is looking for a web application delivered on Web and iOS.") {
		t.Errorf("Summary = %q", p.Overview.Summary)
	}
	if len(p.Scope.Included) != 3 || len(p.Scope.Optional) != 1 {
		t.Errorf("scope included=%d optional=%d, want 3/1", len(p.Scope.Included), len(p.Scope.Optional))
	}
	if p.Scope.DesignLevel != "Custom Design" {
		t.Errorf("DesignLevel = %q", p.Scope.DesignLevel)
	}
	if p.Investment.Total != b.FinalTotal {
		t.Errorf("Investment.Total = %v, want %v", p.Investment.Total, b.FinalTotal)
	}
	if p.ValidDays != ProposalValidDays {
		t.Errorf("ValidDays = %d", p.ValidDays)
	}
}

func TestGenerateProposal_Timeline(t *testing.T) {
	tests := []struct {
		name       string
		assessment ProjectAssessment
		wantWeeks  int
		wantPhases []int
	}{
		{"web app rush", webAppAssessment(), 9, []int{1, 2, 4, 1, 1}},
		{"landing page floors each phase", minimalAssessment(), 5, []int{1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GenerateProposal(tt.assessment, CalculatePricing(tt.assessment))
			if p.Timeline.TotalWeeks != tt.wantWeeks {
				t.Errorf("TotalWeeks = %d, want %d", p.Timeline.TotalWeeks, tt.wantWeeks)
			}
			var got []int
			sum := 0
			for _, ph := range p.Timeline.Phases {
				got = append(got, ph.Weeks)
				sum += ph.Weeks
			}
			if !reflect.DeepEqual(got, tt.wantPhases) {
				t.Errorf("phase weeks = %v, want %v", got, tt.wantPhases)
			}
			if sum > p.Timeline.TotalWeeks {
				t.Errorf("phases sum %d exceeds total %d", sum, p.Timeline.TotalWeeks)
			}
		})
	}
}

func TestBuildTimeline_PhasesAddUpToTotal(t *testing.T) {
	for _, pt := range ProjectTypeOptions {
		for _, tl := range TimelineOptions {
			for features := 0; features <= 13; features++ {
				a := ProjectAssessment{ProjectType: pt.Value, Timeline: tl.Value}
				got := defaultRateCard.buildTimeline(a, features)

				sum := 0
				for _, ph := range got.Phases {
					if ph.Weeks < 1 {
						t.Errorf("%s/%s/%d: phase %s has %d weeks", pt.Value, tl.Value, features, ph.Name, ph.Weeks)
					}
					sum += ph.Weeks
				}
				if sum != got.TotalWeeks {
					t.Errorf("%s/%s/%d features: totalWeeks=%d phases sum=%d",
						pt.Value, tl.Value, features, got.TotalWeeks, sum)
				}
			}
		}
	}
}

func TestBuildTimeline_RemainderGoesToDevelopment(t *testing.T) {
	// web_app, standard, 11 features: 10 + 5.5 weeks rounds up to 16.
	a := ProjectAssessment{ProjectType: "web_app", Timeline: "standard"}
	got := defaultRateCard.buildTimeline(a, 11)

	if got.TotalWeeks != 16 {
		t.Fatalf("TotalWeeks = %d, want 16", got.TotalWeeks)
	}
	var weeks []int
	for _, ph := range got.Phases {
		weeks = append(weeks, ph.Weeks)
	}
	if want := []int{2, 3, 7, 2, 2}; !reflect.DeepEqual(weeks, want) {
		t.Errorf("phase weeks = %v, want %v", weeks, want)
	}
}

func TestGenerateProposal_FlexibleIsLongerThanUrgent(t *testing.T) {
	a := webAppAssessment()
	a.Timeline = "flexible"
	flexible := GenerateProposal(a, CalculatePricing(a))
	a.Timeline = "urgent"
	urgent := GenerateProposal(a, CalculatePricing(a))

	if flexible.Timeline.TotalWeeks <= urgent.Timeline.TotalWeeks {
		t.Errorf("flexible %d weeks should exceed urgent %d weeks",
			flexible.Timeline.TotalWeeks, urgent.Timeline.TotalWeeks)
	}
}

func TestBuildPaymentSchedule(t *testing.T) {
	tests := []struct {
		total float64
		want  []float64
	}{
		{36850, []float64{11055, 14740, 11055}},
		{1000, []float64{300, 400, 300}},
		{1001, []float64{300, 400, 301}},
		{0, []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		schedule := buildPaymentSchedule(tt.total)
		if len(schedule) != 3 {
			t.Fatalf("expected 3 milestones, got %d", len(schedule))
		}
		var sum, pct float64
		for i, m := range schedule {
			if math.Abs(m.Amount-tt.want[i]) > 0.001 {
				t.Errorf("total %v milestone %d = %v, want %v", tt.total, i, m.Amount, tt.want[i])
			}
			sum += m.Amount
			pct += m.Percent
		}
		if sum != tt.total {
			t.Errorf("schedule sums to %v, want %v", sum, tt.total)
		}
		if math.Abs(pct-100) > 0.001 {
			t.Errorf("percentages sum to %v, want 100", pct)
		}
	}
}

func TestGenerateProposal_ServiceMessages(t *testing.T) {
	a := minimalAssessment()
	p := GenerateProposal(a, CalculatePricing(a))
	if len(p.Expectations.Notes) != 0 {
		t.Errorf("expected no notes, got %v", p.Expectations.Notes)
	}

	a.NeedsDomain = true
	a.NeedsHosting = true
	p = GenerateProposal(a, CalculatePricing(a))
	if len(p.Expectations.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %v", p.Expectations.Notes)
	}
	if p.Expectations.Notes[0] != domainServiceMessage {
		t.Errorf("first note = %q, want domain message", p.Expectations.Notes[0])
	}
	if p.Expectations.Notes[1] != hostingServiceMessage {
		t.Errorf("second note = %q, want hosting message", p.Expectations.Notes[1])
	}
}

func TestGenerateProposal_Deterministic(t *testing.T) {
	a := webAppAssessment()
	b := CalculatePricing(a)
	if !reflect.DeepEqual(GenerateProposal(a, b), GenerateProposal(a, b)) {
		t.Error("proposal generation is not deterministic")
	}
}

func TestJoinLabels(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"web"}, "Web"},
		{[]string{"web", "ios"}, "Web and iOS"},
		{[]string{"web", "ios", "android"}, "Web, iOS and Android"},
	}
	for _, tt := range tests {
		if got := joinLabels(PlatformOptions, tt.in); got != tt.want {
			t.Errorf("joinLabels(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
