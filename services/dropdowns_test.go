package services

import (
	"testing"
)

func TestOptionLists_NoEmptyOrDuplicateValues(t *testing.T) {
	lists := map[string][]Option{
		"ProjectTypeOptions":    ProjectTypeOptions,
		"PlatformOptions":       PlatformOptions,
		"DesignStyleOptions":    DesignStyleOptions,
		"DataStorageOptions":    DataStorageOptions,
		"AuthenticationOptions": AuthenticationOptions,
		"TimelineOptions":       TimelineOptions,
		"BudgetRangeOptions":    BudgetRangeOptions,
	}

	for name, opts := range lists {
		if len(opts) == 0 {
			t.Errorf("%s should not be empty", name)
			continue
		}
		seen := make(map[string]bool)
		for _, o := range opts {
			if o.Value == "" || o.Label == "" {
				t.Errorf("%s contains empty option %+v", name, o)
			}
			if seen[o.Value] {
				t.Errorf("%s has duplicate value %q", name, o.Value)
			}
			seen[o.Value] = true
		}
	}
}

func TestOptionLists_MatchRateCard(t *testing.T) {
	rc := DefaultRateCard()
	for _, o := range ProjectTypeOptions {
		if _, ok := rc.BasePrices[o.Value]; !ok {
			t.Errorf("project type %q has no base price", o.Value)
		}
	}
	for _, o := range DesignStyleOptions {
		if _, ok := rc.DesignSurcharge[o.Value]; !ok {
			t.Errorf("design style %q has no surcharge", o.Value)
		}
	}
	for _, o := range TimelineOptions {
		if _, ok := rc.Timeline[o.Value]; !ok {
			t.Errorf("timeline %q has no rate", o.Value)
		}
	}
}

func TestOptionLabel(t *testing.T) {
	tests := []struct {
		opts  []Option
		value string
		want  string
	}{
		{PlatformOptions, "ios", "iOS"},
		{DesignStyleOptions, "custom", "Custom Design"},
		{AuthenticationOptions, "enterprise", "SSO / Enterprise"},
		{PlatformOptions, "smartwatch", "smartwatch"},
	}
	for _, tt := range tests {
		if got := OptionLabel(tt.opts, tt.value); got != tt.want {
			t.Errorf("OptionLabel(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestLeadStatusOptions(t *testing.T) {
	expected := []string{"new", "contacted", "qualified", "won", "lost"}
	if len(LeadStatusOptions) != len(expected) {
		t.Fatalf("expected %d statuses, got %d", len(expected), len(LeadStatusOptions))
	}
	for i, v := range expected {
		if LeadStatusOptions[i] != v {
			t.Errorf("LeadStatusOptions[%d] = %q, want %q", i, LeadStatusOptions[i], v)
		}
	}
}
