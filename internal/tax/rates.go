package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// RateResolver turns a taxable base into a tax amount using the injected
// per-asset-class rule table. The table is configuration, not engine state;
// swapping it requires no code changes.
type RateResolver struct {
	rules model.TaxRuleSet
}

// NewRateResolver creates a resolver over the given rule table.
func NewRateResolver(rules model.TaxRuleSet) *RateResolver {
	return &RateResolver{rules: rules}
}

// Resolve returns the rule for an asset class, or ErrTaxRuleNotFound when the
// class has no configuration. A missing rule aborts computation for that
// class only.
func (r *RateResolver) Resolve(t model.AssetType) (model.TaxRule, error) {
	rule, ok := r.rules.Rule(t)
	if !ok {
		return model.TaxRule{}, fmt.Errorf("%w: %s", apperrors.ErrTaxRuleNotFound, t)
	}
	return rule, nil
}

// SwingExempt reports whether a month's swing-trade sales volume stays under
// the class exemption threshold. A zero threshold disables the exemption;
// day-trades are never exempt.
func SwingExempt(rule model.TaxRule, sales decimal.Decimal) bool {
	return rule.ExemptionThreshold.IsPositive() && sales.LessThanOrEqual(rule.ExemptionThreshold)
}

// TaxOn applies a rate to a taxable base. Tax is never negative: a zero or
// negative base owes nothing.
func TaxOn(base, rate decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return base.Mul(rate)
}
