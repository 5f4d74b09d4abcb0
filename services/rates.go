package services

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed ratecard/rates.yaml
var rateCardYAML []byte

// FeatureRate is one priced entry of the feature table.
type FeatureRate struct {
	Key      string  `yaml:"key"`
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// TimelineRate is the multiplier and schedule scale of a timeline preference.
type TimelineRate struct {
	Factor     float64 `yaml:"factor"`
	Label      string  `yaml:"label"`
	WeeksScale float64 `yaml:"weeks_scale"`
}

type ComplexityRates struct {
	ManyFeatures       int                `yaml:"many_features"`
	ManyFeaturesFactor float64            `yaml:"many_features_factor"`
	SomeFeatures       int                `yaml:"some_features"`
	SomeFeaturesFactor float64            `yaml:"some_features_factor"`
	DataStorage        map[string]float64 `yaml:"data_storage"`
	Authentication     map[string]float64 `yaml:"authentication"`
}

// RateCard holds every lookup table the pricing calculator reads.
type RateCard struct {
	Currency          string                  `yaml:"currency"`
	BasePrices        map[string]float64      `yaml:"base_prices"`
	BaseWeeks         map[string]float64      `yaml:"base_weeks"`
	Features          []FeatureRate           `yaml:"features"`
	PlatformSurcharge []float64               `yaml:"platform_surcharge"`
	DesignSurcharge   map[string]float64      `yaml:"design_surcharge"`
	IntegrationPrice  float64                 `yaml:"integration_price"`
	Complexity        ComplexityRates         `yaml:"complexity"`
	Timeline          map[string]TimelineRate `yaml:"timeline"`
	RangeBand         float64                 `yaml:"range_band"`
	BudgetBands       map[string][2]float64   `yaml:"budget_bands"`

	featureIndex map[string]FeatureRate
}

var defaultRateCard = mustParseRateCard(rateCardYAML)

// DefaultRateCard returns the rate card embedded in the binary.
func DefaultRateCard() *RateCard {
	return defaultRateCard
}

// ParseRateCard decodes a YAML rate card and checks it is complete enough to
// price every enumerated assessment value.
func ParseRateCard(data []byte) (*RateCard, error) {
	var rc RateCard
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parse rate card: %w", err)
	}

	rc.featureIndex = make(map[string]FeatureRate, len(rc.Features))
	for _, f := range rc.Features {
		rc.featureIndex[f.Key] = f
	}

	for _, o := range ProjectTypeOptions {
		if _, ok := rc.BasePrices[o.Value]; !ok {
			return nil, fmt.Errorf("rate card: missing base price for %q", o.Value)
		}
		if _, ok := rc.BaseWeeks[o.Value]; !ok {
			return nil, fmt.Errorf("rate card: missing base weeks for %q", o.Value)
		}
	}
	for _, o := range DesignStyleOptions {
		if _, ok := rc.DesignSurcharge[o.Value]; !ok {
			return nil, fmt.Errorf("rate card: missing design surcharge for %q", o.Value)
		}
	}
	for _, o := range TimelineOptions {
		if _, ok := rc.Timeline[o.Value]; !ok {
			return nil, fmt.Errorf("rate card: missing timeline rate for %q", o.Value)
		}
	}
	if len(rc.PlatformSurcharge) < len(PlatformOptions) {
		return nil, fmt.Errorf("rate card: platform surcharge needs %d entries, got %d",
			len(PlatformOptions), len(rc.PlatformSurcharge))
	}
	if rc.RangeBand <= 0 || rc.RangeBand >= 1 {
		return nil, fmt.Errorf("rate card: range band %v out of (0,1)", rc.RangeBand)
	}

	return &rc, nil
}

func mustParseRateCard(data []byte) *RateCard {
	rc, err := ParseRateCard(data)
	if err != nil {
		panic(err)
	}
	return rc
}

// Feature looks up a feature by key.
func (rc *RateCard) Feature(key string) (FeatureRate, bool) {
	f, ok := rc.featureIndex[key]
	return f, ok
}

// FeatureOptions lists the priced features as form options, sorted by label.
func FeatureOptions() []Option {
	opts := make([]Option, 0, len(defaultRateCard.Features))
	for _, f := range defaultRateCard.Features {
		opts = append(opts, Option{Value: f.Key, Label: f.Name})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
	return opts
}
