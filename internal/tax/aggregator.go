package tax

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// MonthlyAggregator groups one month's realized gains by trade type within an
// asset class, settles them against the loss-carryforward ledger and the rate
// table, and produces the per-class report detail.
type MonthlyAggregator struct {
	resolver *RateResolver
	losses   *LossCarryforward
}

// NewMonthlyAggregator creates an aggregator over the given resolver and
// carryforward ledger.
func NewMonthlyAggregator(resolver *RateResolver, losses *LossCarryforward) *MonthlyAggregator {
	return &MonthlyAggregator{resolver: resolver, losses: losses}
}

// aggregateType sums sales, gains, losses and net for one trade type.
func aggregateType(gains []model.RealizedGain) model.TradeTypeAggregate {
	agg := model.TradeTypeAggregate{
		Sales:  decimal.Zero,
		Gains:  decimal.Zero,
		Losses: decimal.Zero,
		Net:    decimal.Zero,
		Tax:    decimal.Zero,
	}
	for _, g := range gains {
		agg.Sales = agg.Sales.Add(g.SaleValue)
		if g.Gain.IsNegative() {
			agg.Losses = agg.Losses.Add(g.Gain.Neg())
		} else {
			agg.Gains = agg.Gains.Add(g.Gain)
		}
	}
	agg.Net = agg.Gains.Sub(agg.Losses)
	return agg
}

// Aggregate settles one (month, asset class) against the ledger and rule
// table. Swing-trade offsets are resolved before day-trade offsets within the
// same month; exempt swing aggregates never touch the loss balance.
//
// Returns ErrTaxRuleNotFound (wrapped) when the class has no rule; the caller
// omits the class from the report and records a diagnostic.
func (a *MonthlyAggregator) Aggregate(
	assetType model.AssetType,
	swing, day []model.RealizedGain,
	irrf, dividends decimal.Decimal,
) (model.MonthlyTypeDetail, error) {

	rule, err := a.resolver.Resolve(assetType)
	if err != nil {
		return model.MonthlyTypeDetail{}, err
	}

	swingAgg := aggregateType(swing)
	dayAgg := aggregateType(day)
	swingAgg.IrrfRate = rule.IrrfRateSwing
	dayAgg.IrrfRate = rule.IrrfRateDay
	lossUsed := decimal.Zero

	swingAgg.Exempt = SwingExempt(rule, swingAgg.Sales)
	if swingAgg.Exempt {
		// Exempt months owe nothing and do not interact with the loss ledger.
		swingAgg.TaxRate = decimal.Zero
	} else {
		swingAgg.TaxRate = rule.SwingTaxRate
		if swingAgg.Net.IsNegative() {
			a.losses.Accrue(assetType, swingAgg.Net)
		} else {
			used := a.losses.Consume(assetType, swingAgg.Net)
			lossUsed = lossUsed.Add(used)
			swingAgg.Tax = TaxOn(swingAgg.Net.Sub(used), rule.SwingTaxRate).Round(2)
		}
	}

	dayAgg.Exempt = false
	dayAgg.TaxRate = rule.DayTaxRate
	if dayAgg.Net.IsNegative() {
		a.losses.Accrue(assetType, dayAgg.Net)
	} else {
		used := a.losses.Consume(assetType, dayAgg.Net)
		lossUsed = lossUsed.Add(used)
		dayAgg.Tax = TaxOn(dayAgg.Net.Sub(used), rule.DayTaxRate).Round(2)
	}

	taxDue := swingAgg.Tax.Add(dayAgg.Tax).Sub(irrf)
	if taxDue.IsNegative() {
		taxDue = decimal.Zero
	}

	return model.MonthlyTypeDetail{
		AssetType:                assetType,
		SwingTrade:               swingAgg,
		DayTrade:                 dayAgg,
		AccumulatedLossUsed:      lossUsed,
		AccumulatedLossRemaining: a.losses.Balance(assetType),
		Dividends:                dividends,
		Irrf:                     irrf,
		TaxDue:                   taxDue.Round(2),
		DarfCode:                 rule.DarfCode,
	}, nil
}
