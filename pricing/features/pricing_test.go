package features

import (
	"context"
	"fmt"
	"testing"

	"fashion-studio/catalog"
	"fashion-studio/pricing"

	"github.com/cucumber/godog"
)

type pricingTestContext struct {
	calc     *pricing.Calculator
	result   pricing.PriceCalculation
	discount float64
}

func (p *pricingTestContext) reset() {
	p.calc = pricing.NewCalculator(catalog.Default())
	p.result = pricing.PriceCalculation{}
	p.discount = 0
}

func (p *pricingTestContext) iPriceTemplateInSize(templateID, size, custom string) error {
	p.result = p.calc.Calculate(templateID, size, custom == "with")
	return nil
}

func (p *pricingTestContext) iApplyACouponOfPercent(pct float64) error {
	p.discount = pricing.Discount(p.result.TotalPrice, &pct, nil)
	return nil
}

func (p *pricingTestContext) iApplyACouponOfSAR(amount float64) error {
	p.discount = pricing.Discount(p.result.TotalPrice, nil, &amount)
	return nil
}

func (p *pricingTestContext) iApplyACouponOfPercentAndSAR(pct, amount float64) error {
	p.discount = pricing.Discount(p.result.TotalPrice, &pct, &amount)
	return nil
}

func expect(name string, got, want float64) error {
	if got != want {
		return fmt.Errorf("expected %s %v, got %v", name, want, got)
	}
	return nil
}

func (p *pricingTestContext) theBasePriceIs(v float64) error {
	return expect("base price", p.result.BasePrice, v)
}

func (p *pricingTestContext) theSizeAdjustmentIs(v float64) error {
	return expect("size adjustment", p.result.SizeAdjustment, v)
}

func (p *pricingTestContext) theComplexityAdjustmentIs(v float64) error {
	return expect("complexity adjustment", p.result.ComplexityAdjustment, v)
}

func (p *pricingTestContext) theTotalPriceIs(v float64) error {
	return expect("total price", p.result.TotalPrice, v)
}

func (p *pricingTestContext) theDiscountIs(v float64) error {
	return expect("discount", p.discount, v)
}

func (p *pricingTestContext) theFinalPriceIs(v float64) error {
	return expect("final price", pricing.FinalPrice(p.result.TotalPrice, p.discount), v)
}

func (p *pricingTestContext) theCurrencyIs(currency string) error {
	if p.result.Currency != currency {
		return fmt.Errorf("expected currency %s, got %s", currency, p.result.Currency)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// When steps
	ctx.Step(`^I price template "([^"]*)" in size "([^"]*)" (with|without) custom elements$`, tc.iPriceTemplateInSize)
	ctx.Step(`^I apply a coupon of (\d+(?:\.\d+)?) percent$`, tc.iApplyACouponOfPercent)
	ctx.Step(`^I apply a coupon of (\d+(?:\.\d+)?) SAR$`, tc.iApplyACouponOfSAR)
	ctx.Step(`^I apply a coupon of (\d+(?:\.\d+)?) percent and (\d+(?:\.\d+)?) SAR$`, tc.iApplyACouponOfPercentAndSAR)

	// Then steps
	ctx.Step(`^the base price is (\d+(?:\.\d+)?)$`, tc.theBasePriceIs)
	ctx.Step(`^the size adjustment is (\d+(?:\.\d+)?)$`, tc.theSizeAdjustmentIs)
	ctx.Step(`^the complexity adjustment is (\d+(?:\.\d+)?)$`, tc.theComplexityAdjustmentIs)
	ctx.Step(`^the total price is (\d+(?:\.\d+)?)$`, tc.theTotalPriceIs)
	ctx.Step(`^the discount is (\d+(?:\.\d+)?)$`, tc.theDiscountIs)
	ctx.Step(`^the final price is (\d+(?:\.\d+)?)$`, tc.theFinalPriceIs)
	ctx.Step(`^the currency is "([^"]*)"$`, tc.theCurrencyIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"pricing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
