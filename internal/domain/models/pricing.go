// internal/domain/models/pricing.go
package models

import "sort"

// PricingPlan is one tier offered in a country.
type PricingPlan struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	PriceMonthly float64  `json:"priceMonthly" yaml:"priceMonthly"`
	PriceSuffix  string   `json:"priceSuffix" yaml:"priceSuffix"`
	Features     []string `json:"features" yaml:"features"`
}

// CountryPricing holds the currency and plans for one country.
// The country code is the key in PricingData, not a field.
type CountryPricing struct {
	Name           string        `json:"name" yaml:"name"`
	Currency       string        `json:"currency" yaml:"currency"`
	CurrencySymbol string        `json:"currencySymbol" yaml:"currencySymbol"`
	Plans          []PricingPlan `json:"plans" yaml:"plans"`
}

// PricingData maps an upper-case ISO country code to its pricing.
type PricingData map[string]CountryPricing

// SortedPlans returns a copy of the plans ordered by ascending monthly price.
// Plans with equal prices keep their stored order.
func (c CountryPricing) SortedPlans() []PricingPlan {
	plans := make([]PricingPlan, len(c.Plans))
	copy(plans, c.Plans)
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].PriceMonthly < plans[j].PriceMonthly
	})
	return plans
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (d PricingData) Clone() PricingData {
	out := make(PricingData, len(d))
	for code, c := range d {
		plans := make([]PricingPlan, len(c.Plans))
		for i, p := range c.Plans {
			p.Features = append([]string(nil), p.Features...)
			plans[i] = p
		}
		c.Plans = plans
		out[code] = c
	}
	return out
}

// Codes returns the country codes in sorted order.
func (d PricingData) Codes() []string {
	codes := make([]string, 0, len(d))
	for code := range d {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
