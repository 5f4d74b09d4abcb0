// Package services holds the quoting, export, newsletter and import logic.
// Nothing in here writes HTTP responses.
package services

import (
	"fmt"
	"math"
)

// FeatureLineItem is one priced feature in a breakdown.
type FeatureLineItem struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Optional bool    `json:"optional"`
}

type ComplexityMultiplier struct {
	Factor  float64  `json:"factor"`
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

type TimelineMultiplier struct {
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Budget fit values.
const (
	BudgetWithin  = "within"
	BudgetBelow   = "below"
	BudgetAbove   = "above"
	BudgetUnknown = "unknown"
)

// PricingBreakdown is derived from an assessment and never edited in place.
type PricingBreakdown struct {
	Currency        string               `json:"currency"`
	BasePrice       float64              `json:"basePrice"`
	Features        []FeatureLineItem    `json:"features"`
	FeaturesTotal   float64              `json:"featuresTotal"`
	PlatformCost    float64              `json:"platformCost"`
	DesignCost      float64              `json:"designCost"`
	IntegrationCost float64              `json:"integrationCost"`
	Subtotal        float64              `json:"subtotal"`
	Complexity      ComplexityMultiplier `json:"complexity"`
	Timeline        TimelineMultiplier   `json:"timeline"`
	FinalTotal      float64              `json:"finalTotal"`
	EstimatedRange  PriceRange           `json:"estimatedRange"`
	BudgetFit       string               `json:"budgetFit"`
}

// CalculatePricing prices a validated assessment with the embedded rate card.
func CalculatePricing(a ProjectAssessment) PricingBreakdown {
	return defaultRateCard.Calculate(a)
}

// Calculate prices a validated assessment. Enumerated values missing from the
// rate card price as zero; Validate rejects them before this is reached.
func (rc *RateCard) Calculate(a ProjectAssessment) PricingBreakdown {
	b := PricingBreakdown{
		Currency:  rc.Currency,
		BasePrice: rc.BasePrices[a.ProjectType],
		Features:  []FeatureLineItem{},
	}

	mustHave := make(map[string]struct{}, len(a.MustHaveFeatures))
	for _, key := range a.MustHaveFeatures {
		if _, dup := mustHave[key]; dup {
			continue
		}
		mustHave[key] = struct{}{}
		if item, ok := rc.featureLine(key, false); ok {
			b.Features = append(b.Features, item)
		}
	}
	niceToHave := make(map[string]struct{}, len(a.NiceToHaveFeatures))
	for _, key := range a.NiceToHaveFeatures {
		if _, dup := mustHave[key]; dup {
			continue
		}
		if _, dup := niceToHave[key]; dup {
			continue
		}
		niceToHave[key] = struct{}{}
		if item, ok := rc.featureLine(key, true); ok {
			b.Features = append(b.Features, item)
		}
	}
	for _, f := range b.Features {
		b.FeaturesTotal += f.Price
	}

	b.PlatformCost = rc.platformCost(len(a.Platforms))
	b.DesignCost = rc.DesignSurcharge[a.DesignStyle]
	b.IntegrationCost = float64(len(a.Integrations)) * rc.IntegrationPrice
	b.Subtotal = b.BasePrice + b.FeaturesTotal + b.PlatformCost + b.DesignCost + b.IntegrationCost

	b.Complexity = rc.complexity(len(b.Features), a.DataStorage, a.Authentication)
	tl := rc.Timeline[a.Timeline]
	b.Timeline = TimelineMultiplier{Factor: tl.Factor, Label: tl.Label}

	b.FinalTotal = math.Round(b.Subtotal * b.Complexity.Factor * b.Timeline.Factor)
	b.EstimatedRange = PriceRange{
		Min:     math.Floor(b.FinalTotal*(1-rc.RangeBand)/100) * 100,
		Max:     math.Ceil(b.FinalTotal*(1+rc.RangeBand)/100) * 100,
		Average: b.FinalTotal,
	}
	b.BudgetFit = rc.budgetFit(a.BudgetRange, b.FinalTotal)

	return b
}

func (rc *RateCard) featureLine(key string, optional bool) (FeatureLineItem, bool) {
	f, ok := rc.Feature(key)
	if !ok {
		return FeatureLineItem{}, false
	}
	return FeatureLineItem{
		Key:      f.Key,
		Name:     f.Name,
		Price:    f.Price,
		Category: f.Category,
		Optional: optional,
	}, true
}

// platformCost looks the surcharge up by platform count, clamping to the last
// entry of the table.
func (rc *RateCard) platformCost(count int) float64 {
	if count <= 0 || len(rc.PlatformSurcharge) == 0 {
		return 0
	}
	if count > len(rc.PlatformSurcharge) {
		count = len(rc.PlatformSurcharge)
	}
	return rc.PlatformSurcharge[count-1]
}

func (rc *RateCard) complexity(featureCount int, dataStorage, auth string) ComplexityMultiplier {
	c := ComplexityMultiplier{Factor: 1, Reasons: []string{}}
	cr := rc.Complexity

	switch {
	case featureCount >= cr.ManyFeatures:
		c.Factor += cr.ManyFeaturesFactor
		c.Reasons = append(c.Reasons, fmt.Sprintf("%d features selected", featureCount))
	case featureCount >= cr.SomeFeatures:
		c.Factor += cr.SomeFeaturesFactor
		c.Reasons = append(c.Reasons, fmt.Sprintf("%d features selected", featureCount))
	}
	if f := cr.DataStorage[dataStorage]; f > 0 {
		c.Factor += f
		c.Reasons = append(c.Reasons, OptionLabel(DataStorageOptions, dataStorage))
	}
	if f := cr.Authentication[auth]; f > 0 {
		c.Factor += f
		c.Reasons = append(c.Reasons, OptionLabel(AuthenticationOptions, auth))
	}

	// Keep the factor at two decimals so repeated float additions do not
	// leak into the total.
	c.Factor = math.Round(c.Factor*100) / 100

	switch {
	case c.Factor < 1.1:
		c.Level = "low"
	case c.Factor < 1.3:
		c.Level = "medium"
	default:
		c.Level = "high"
	}
	return c
}

func (rc *RateCard) budgetFit(budgetRange string, total float64) string {
	band, ok := rc.BudgetBands[budgetRange]
	if !ok {
		return BudgetUnknown
	}
	lo, hi := band[0], band[1]
	switch {
	case total < lo:
		return BudgetBelow
	case hi > 0 && total >= hi:
		return BudgetAbove
	default:
		return BudgetWithin
	}
}
