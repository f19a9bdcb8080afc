package pricing

import (
	"strings"

	"fashion-studio/catalog"

	"github.com/shopspring/decimal"
)

const (
	Currency            = "SAR"
	FallbackBasePrice   = 150
	ComplexitySurcharge = 50

	moneyPlaces = 2
	hundred     = 100
)

type PriceCalculation struct {
	BasePrice            float64 `json:"base_price"`
	SizeAdjustment       float64 `json:"size_adjustment"`
	ComplexityAdjustment float64 `json:"complexity_adjustment"`
	TotalPrice           float64 `json:"total_price"`
	Currency             string  `json:"currency"`
}

type Calculator struct {
	catalog *catalog.Catalog
}

func NewCalculator(c *catalog.Catalog) *Calculator {
	return &Calculator{catalog: c}
}

// Calculate prices a template in a size. Unknown templates cost FallbackBasePrice,
// unknown sizes add nothing and an empty size is priced as catalog.DefaultSize.
func (p *Calculator) Calculate(templateID, size string, hasCustomElements bool) PriceCalculation {
	if strings.TrimSpace(size) == "" {
		size = catalog.DefaultSize
	}

	base := decimal.NewFromInt(FallbackBasePrice)
	if t, ok := p.catalog.Template(templateID); ok {
		base = decimal.NewFromFloat(t.BasePrice)
	}
	sizeAdj := decimal.NewFromFloat(p.catalog.SizeAdjustment(size))
	complexity := decimal.Zero
	if hasCustomElements {
		complexity = decimal.NewFromInt(ComplexitySurcharge)
	}

	return PriceCalculation{
		BasePrice:            base.InexactFloat64(),
		SizeAdjustment:       sizeAdj.InexactFloat64(),
		ComplexityAdjustment: complexity.InexactFloat64(),
		TotalPrice:           base.Add(sizeAdj).Add(complexity).Round(moneyPlaces).InexactFloat64(),
		Currency:             Currency,
	}
}

// Discount computes the reduction a coupon grants on total. A positive percentage
// takes precedence over a fixed amount. A fixed amount is kept as is even when
// it exceeds total; FinalPrice does the clamping.
func Discount(total float64, percentage, amount *float64) float64 {
	t := decimal.NewFromFloat(total)
	if t.IsNegative() {
		return 0
	}

	d := decimal.Zero
	switch {
	case percentage != nil && *percentage > 0:
		d = t.Mul(decimal.NewFromFloat(*percentage)).Div(decimal.NewFromInt(hundred))
	case amount != nil && *amount > 0:
		d = decimal.NewFromFloat(*amount)
	}

	return d.Round(moneyPlaces).InexactFloat64()
}

// FinalPrice is total minus discount, never below zero.
func FinalPrice(total, discount float64) float64 {
	f := decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(discount))
	if f.IsNegative() {
		return 0
	}
	return f.Round(moneyPlaces).InexactFloat64()
}
