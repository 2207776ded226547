// internal/app/store/pricing/pricingstore.go
package pricingstore

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/system/inputval"
	"github.com/dalemusser/wavesite/internal/app/system/normalize"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const Name = "pricing"

// Routes lists the pages that show pricing.
var Routes = []string{"/pricing", "/admin/pricing"}

// Store manages the per-country pricing table. The whole table is one
// document; countries are keyed by upper-case ISO code.
type Store struct {
	d *content.Document[models.PricingData]
}

func New(deps content.Deps) *Store {
	return &Store{d: content.NewDocument(deps, content.DocKind[models.PricingData]{
		Name:    Name,
		Default: func() models.PricingData { return models.PricingData{} },
		Clone:   models.PricingData.Clone,
		Routes:  Routes,
	})}
}

func (s *Store) Document() *content.Document[models.PricingData] { return s.d }

// CountryInput adds a country or updates its name and currency.
type CountryInput struct {
	CountryCode    string `json:"countryCode" validate:"required,countrycode" label:"Country code"`
	Name           string `json:"name" validate:"required,min=2" label:"Country name"`
	Currency       string `json:"currency" validate:"required,currencycode" label:"Currency"`
	CurrencySymbol string `json:"currencySymbol" validate:"required,min=1" label:"Currency symbol"`
}

// PlanInput adds a plan (empty ID) or updates an existing one.
// PriceMonthly is the raw form value.
type PlanInput struct {
	ID           string
	CountryCode  string
	Name         string
	PriceMonthly string
	PriceSuffix  string
	Features     []string
}

type planRules struct {
	Name        string  `json:"name" validate:"required,min=2" label:"Plan name"`
	Price       float64 `json:"priceMonthly" validate:"positive" label:"Monthly price"`
	PriceSuffix string  `json:"priceSuffix" validate:"required,min=1" label:"Price suffix"`
}

// All returns the whole table as stored.
func (s *Store) All(ctx context.Context) (models.PricingData, error) {
	return s.d.Get(ctx)
}

// Display returns the table with each country's plans sorted by ascending
// monthly price, as the pricing page shows them.
func (s *Store) Display(ctx context.Context) (models.PricingData, error) {
	data, err := s.d.Get(ctx)
	if err != nil {
		return nil, err
	}
	for code, c := range data {
		c.Plans = c.SortedPlans()
		data[code] = c
	}
	return data, nil
}

// Countries returns the configured country codes in sorted order.
func (s *Store) Countries(ctx context.Context) ([]string, error) {
	data, err := s.d.Get(ctx)
	if err != nil {
		return nil, err
	}
	return data.Codes(), nil
}

// Country returns one country's pricing with plans in stored order.
func (s *Store) Country(ctx context.Context, code string) (models.CountryPricing, error) {
	data, err := s.d.Get(ctx)
	if err != nil {
		return models.CountryPricing{}, err
	}
	code = normalize.Code(code)
	c, ok := data[code]
	if !ok {
		return models.CountryPricing{}, &content.NotFoundError{Collection: "country", Key: code}
	}
	return c, nil
}

// UpsertCountry adds a country with no plans, or updates the name and
// currency of an existing one while keeping its plans.
func (s *Store) UpsertCountry(ctx context.Context, in CountryInput) (models.CountryPricing, error) {
	in.CountryCode = normalize.Code(in.CountryCode)
	in.Currency = normalize.Code(in.Currency)
	in.Name = strings.TrimSpace(in.Name)
	in.CurrencySymbol = strings.TrimSpace(in.CurrencySymbol)
	if err := content.Check(in); err != nil {
		return models.CountryPricing{}, err
	}

	var out models.CountryPricing
	_, err := s.d.Update(ctx, func(data *models.PricingData) error {
		c, ok := (*data)[in.CountryCode]
		if !ok {
			c.Plans = []models.PricingPlan{}
		}
		c.Name = in.Name
		c.Currency = in.Currency
		c.CurrencySymbol = in.CurrencySymbol
		(*data)[in.CountryCode] = c
		out = c
		return nil
	})
	return out, err
}

// DeleteCountry removes a country and all of its plans.
func (s *Store) DeleteCountry(ctx context.Context, code string) error {
	code = normalize.Code(code)
	_, err := s.d.Update(ctx, func(data *models.PricingData) error {
		if _, ok := (*data)[code]; !ok {
			return &content.NotFoundError{Collection: "country", Key: code}
		}
		delete(*data, code)
		return nil
	})
	return err
}

// SavePlan updates the plan with in.ID, or appends a new plan when the ID
// is empty or unknown in that country.
func (s *Store) SavePlan(ctx context.Context, in PlanInput) (models.PricingPlan, error) {
	code := normalize.Code(in.CountryCode)
	plan := models.PricingPlan{
		ID:          strings.TrimSpace(in.ID),
		Name:        strings.TrimSpace(in.Name),
		PriceSuffix: strings.TrimSpace(in.PriceSuffix),
		Features:    in.Features,
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	res := &inputval.Result{}
	price, perr := strconv.ParseFloat(strings.TrimSpace(in.PriceMonthly), 64)
	// ParseFloat accepts "Inf" and "NaN", which cannot be stored as JSON.
	if perr != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		price = 0
		res.Add("priceMonthly", "Monthly price", "Monthly price must be a number.")
	}
	plan.PriceMonthly = price
	res.Merge("", inputval.Validate(planRules{Name: plan.Name, Price: price, PriceSuffix: plan.PriceSuffix}))
	if res.HasErrors() {
		return models.PricingPlan{}, content.NewValidationError(res)
	}

	_, err := s.d.Update(ctx, func(data *models.PricingData) error {
		c, ok := (*data)[code]
		if !ok {
			return &content.NotFoundError{Collection: "country", Key: code}
		}
		_, idx, found := lo.FindIndexOf(c.Plans, func(p models.PricingPlan) bool {
			return plan.ID != "" && p.ID == plan.ID
		})
		if found {
			c.Plans[idx] = plan
		} else {
			plan.ID = strings.ToLower(code) + "-" + uuid.NewString()[:8]
			c.Plans = append(c.Plans, plan)
		}
		(*data)[code] = c
		return nil
	})
	if err != nil {
		return models.PricingPlan{}, err
	}
	return plan, nil
}

// DeletePlan removes one plan from a country.
func (s *Store) DeletePlan(ctx context.Context, code, planID string) error {
	code = normalize.Code(code)
	_, err := s.d.Update(ctx, func(data *models.PricingData) error {
		c, ok := (*data)[code]
		if !ok {
			return &content.NotFoundError{Collection: "country", Key: code}
		}
		kept := lo.Reject(c.Plans, func(p models.PricingPlan, _ int) bool { return p.ID == planID })
		if len(kept) == len(c.Plans) {
			return &content.NotFoundError{Collection: "plan", Key: planID}
		}
		c.Plans = kept
		(*data)[code] = c
		return nil
	})
	return err
}

