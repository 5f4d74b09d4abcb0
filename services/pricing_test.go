package services

import (
	"math"
	"reflect"
	"testing"
)

func minimalAssessment() ProjectAssessment {
	return ProjectAssessment{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		ProjectType:    "landing_page",
		Description:    "A single landing page for a product launch campaign.",
		Platforms:      []string{"web"},
		DesignStyle:    "template",
		DataStorage:    "none",
		Authentication: "none",
		Timeline:       "standard",
		BudgetRange:    "under_5k",
	}
}

func webAppAssessment() ProjectAssessment {
	return ProjectAssessment{
		Name:               "Grace Hopper",
		Email:              "grace@example.com",
		Company:            "Compiler Co",
		ProjectType:        "web_app",
		Description:        "Customer portal with billing, dashboards and reporting.",
		Platforms:          []string{"web", "ios"},
		MustHaveFeatures:   []string{"user_auth", "admin_dashboard", "payments"},
		NiceToHaveFeatures: []string{"analytics", "user_auth"},
		DesignStyle:        "custom",
		Integrations:       []string{"Stripe", "Mailchimp"},
		DataStorage:        "basic",
		Authentication:     "social",
		Timeline:           "rush",
		BudgetRange:        "15k_50k",
		NeedsDomain:        true,
	}
}

func TestCalculatePricing_Minimal(t *testing.T) {
	b := CalculatePricing(minimalAssessment())

	if b.BasePrice != 1500 {
		t.Errorf("BasePrice = %v, want 1500", b.BasePrice)
	}
	if len(b.Features) != 0 {
		t.Errorf("Features = %v, want none", b.Features)
	}
	if b.Complexity.Factor != 1 || b.Complexity.Level != "low" {
		t.Errorf("Complexity = %+v, want factor 1 level low", b.Complexity)
	}
	if b.FinalTotal != 1500 {
		t.Errorf("FinalTotal = %v, want 1500", b.FinalTotal)
	}
	if b.EstimatedRange.Min != 1200 || b.EstimatedRange.Max != 1800 {
		t.Errorf("EstimatedRange = %+v, want 1200..1800", b.EstimatedRange)
	}
	if b.BudgetFit != BudgetWithin {
		t.Errorf("BudgetFit = %q, want %q", b.BudgetFit, BudgetWithin)
	}
	if b.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", b.Currency)
	}
}

func TestCalculatePricing_WebApp(t *testing.T) {
	b := CalculatePricing(webAppAssessment())

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"BasePrice", b.BasePrice, 12000},
		{"FeaturesTotal", b.FeaturesTotal, 7800},
		{"PlatformCost", b.PlatformCost, 3000},
		{"DesignCost", b.DesignCost, 2500},
		{"IntegrationCost", b.IntegrationCost, 1500},
		{"Subtotal", b.Subtotal, 26800},
		{"Complexity", b.Complexity.Factor, 1.10},
		{"Timeline", b.Timeline.Factor, 1.25},
		{"FinalTotal", b.FinalTotal, 36850},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if b.Complexity.Level != "medium" {
		t.Errorf("Complexity.Level = %q, want medium", b.Complexity.Level)
	}
	if len(b.Features) != 4 {
		t.Fatalf("expected 4 feature line items (duplicate priced once), got %d", len(b.Features))
	}
	last := b.Features[3]
	if last.Key != "analytics" || !last.Optional {
		t.Errorf("expected analytics to be the optional line item, got %+v", last)
	}
	for _, f := range b.Features[:3] {
		if f.Optional {
			t.Errorf("must-have feature %q flagged optional", f.Key)
		}
	}
	if b.BudgetFit != BudgetWithin {
		t.Errorf("BudgetFit = %q, want within", b.BudgetFit)
	}
}

func TestCalculatePricing_Deterministic(t *testing.T) {
	for _, a := range []ProjectAssessment{minimalAssessment(), webAppAssessment()} {
		first := CalculatePricing(a)
		second := CalculatePricing(a)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("pricing not deterministic for %s:\n%+v\n%+v", a.ProjectType, first, second)
		}
	}
}

func TestCalculatePricing_FinalTotalWithinRange(t *testing.T) {
	for _, pt := range ProjectTypeOptions {
		for _, tl := range TimelineOptions {
			for _, ds := range DesignStyleOptions {
				a := webAppAssessment()
				a.ProjectType = pt.Value
				a.Timeline = tl.Value
				a.DesignStyle = ds.Value
				b := CalculatePricing(a)
				if b.FinalTotal < b.EstimatedRange.Min || b.FinalTotal > b.EstimatedRange.Max {
					t.Errorf("%s/%s/%s: total %v outside %v..%v", pt.Value, tl.Value, ds.Value,
						b.FinalTotal, b.EstimatedRange.Min, b.EstimatedRange.Max)
				}
				if b.EstimatedRange.Average != b.FinalTotal {
					t.Errorf("average %v != final total %v", b.EstimatedRange.Average, b.FinalTotal)
				}
			}
		}
	}
}

func TestCalculatePricing_NoOptionalsIsBaseTimesMultipliers(t *testing.T) {
	tests := []struct {
		name        string
		projectType string
		storage     string
		auth        string
		timeline    string
	}{
		{"saas urgent", "saas", "complex", "enterprise", "urgent"},
		{"ecommerce flexible", "ecommerce", "basic", "basic", "flexible"},
		{"api standard", "api_backend", "none", "social", "standard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := minimalAssessment()
			a.ProjectType = tt.projectType
			a.DataStorage = tt.storage
			a.Authentication = tt.auth
			a.Timeline = tt.timeline

			b := CalculatePricing(a)
			want := math.Round(b.BasePrice * b.Complexity.Factor * b.Timeline.Factor)
			if b.FinalTotal != want {
				t.Errorf("FinalTotal = %v, want %v", b.FinalTotal, want)
			}
			if b.Subtotal != b.BasePrice {
				t.Errorf("Subtotal = %v, want base price %v", b.Subtotal, b.BasePrice)
			}
		})
	}
}

func TestCalculatePricing_ComplexityLevels(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		storage  string
		auth     string
		factor   float64
		level    string
	}{
		{"plain", nil, "none", "none", 1.0, "low"},
		{"five features", []string{"search", "analytics", "blog_cms", "file_uploads", "chat"}, "none", "none", 1.10, "medium"},
		{"eight features complex", []string{"search", "analytics", "blog_cms", "file_uploads", "chat", "booking", "payments", "ai_features"}, "complex", "enterprise", 1.50, "high"},
		{"storage only", nil, "complex", "basic", 1.15, "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := minimalAssessment()
			a.MustHaveFeatures = tt.features
			a.DataStorage = tt.storage
			a.Authentication = tt.auth
			b := CalculatePricing(a)
			if math.Abs(b.Complexity.Factor-tt.factor) > 0.0001 {
				t.Errorf("factor = %v, want %v", b.Complexity.Factor, tt.factor)
			}
			if b.Complexity.Level != tt.level {
				t.Errorf("level = %q, want %q", b.Complexity.Level, tt.level)
			}
		})
	}
}

func TestCalculatePricing_PlatformSurchargeClamps(t *testing.T) {
	rc := DefaultRateCard()
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0}, {1, 0}, {2, 3000}, {3, 6000}, {4, 8500}, {7, 8500},
	}
	for _, tt := range tests {
		if got := rc.platformCost(tt.count); got != tt.want {
			t.Errorf("platformCost(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestBudgetFit(t *testing.T) {
	rc := DefaultRateCard()
	tests := []struct {
		budget string
		total  float64
		want   string
	}{
		{"under_5k", 4999, BudgetWithin},
		{"under_5k", 5000, BudgetAbove},
		{"5k_15k", 4000, BudgetBelow},
		{"50k_plus", 900000, BudgetWithin},
		{"not_sure", 10000, BudgetUnknown},
	}
	for _, tt := range tests {
		if got := rc.budgetFit(tt.budget, tt.total); got != tt.want {
			t.Errorf("budgetFit(%q, %v) = %q, want %q", tt.budget, tt.total, got, tt.want)
		}
	}
}

func TestParseRateCard_RejectsIncomplete(t *testing.T) {
	_, err := ParseRateCard([]byte("currency: USD\nbase_prices:\n  landing_page: 100\n"))
	if err == nil {
		t.Fatal("expected error for incomplete rate card")
	}
}
