package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RealizedGain is emitted by the position ledger for every sell (or withdraw)
// operation. Gain is saleValue minus averageCost*quantitySold; it is created
// once per sale and never mutated afterwards.
type RealizedGain struct {
	OperationID       string          `json:"operationId"`
	AssetID           string          `json:"assetId"`
	AssetType         AssetType       `json:"assetType"`
	Date              time.Time       `json:"date"`
	QuantitySold      decimal.Decimal `json:"quantitySold"`
	AverageCostAtSale decimal.Decimal `json:"averageCostAtSale"`
	SaleValue         decimal.Decimal `json:"saleValue"`
	Gain              decimal.Decimal `json:"gain"`
	TradeType         TradeType       `json:"tradeType"`
}

// TradeTypeAggregate sums one month's realized gains of one trade type within
// an asset class. Net is gains minus losses before any loss offset. IrrfRate
// is the statutory withholding rate for the trade type, reported so the
// declared withholding on the month's operations can be cross-checked.
type TradeTypeAggregate struct {
	Sales    decimal.Decimal `json:"sales"`
	Gains    decimal.Decimal `json:"gains"`
	Losses   decimal.Decimal `json:"losses"`
	Net      decimal.Decimal `json:"net"`
	Exempt   bool            `json:"exempt"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	IrrfRate decimal.Decimal `json:"irrfRate"`
	Tax      decimal.Decimal `json:"tax"`
}

// MonthlyTypeDetail is the per-asset-class section of a monthly report.
type MonthlyTypeDetail struct {
	AssetType                AssetType          `json:"assetType"`
	SwingTrade               TradeTypeAggregate `json:"swingTrade"`
	DayTrade                 TradeTypeAggregate `json:"dayTrade"`
	AccumulatedLossUsed      decimal.Decimal    `json:"accumulatedLossUsed"`
	AccumulatedLossRemaining decimal.Decimal    `json:"accumulatedLossRemaining"`
	Dividends                decimal.Decimal    `json:"dividends"`
	Irrf                     decimal.Decimal    `json:"irrf"`
	TaxDue                   decimal.Decimal    `json:"taxDue"`
	DarfCode                 string             `json:"darfCode"`
}

// ReportSummary is the grand total section of a monthly report.
type ReportSummary struct {
	TotalSales decimal.Decimal `json:"totalSales"`
	NetResult  decimal.Decimal `json:"netResult"`
	TaxPayable decimal.Decimal `json:"taxPayable"`
	Irrf       decimal.Decimal `json:"irrf"`
	HasTaxDue  bool            `json:"hasTaxDue"`
	DarfCodes  []string        `json:"darfCodes"`
}

// TaxReport is the full report for one calendar month: per-class details,
// the month's realized-gain detail list, the loss balances after the month
// has been applied, and the grand-total summary.
type TaxReport struct {
	Period            Period                          `json:"period"`
	ByType            map[AssetType]MonthlyTypeDetail `json:"byType"`
	Operations        []RealizedGain                  `json:"operations"`
	AccumulatedLosses map[AssetType]decimal.Decimal   `json:"accumulatedLosses"`
	Summary           ReportSummary                   `json:"summary"`
}

// TaxRule is the static per-asset-class tax configuration: the monthly
// swing-trade exemption threshold (zero disables the exemption), the tax
// rates for each trade type, the withholding rates used for reporting,
// and the remittance (DARF) code.
type TaxRule struct {
	AssetType          AssetType       `json:"assetType"`
	ExemptionThreshold decimal.Decimal `json:"exemptionThreshold"`
	SwingTaxRate       decimal.Decimal `json:"swingTaxRate"`
	DayTaxRate         decimal.Decimal `json:"dayTaxRate"`
	IrrfRateSwing      decimal.Decimal `json:"irrfRateSwing"`
	IrrfRateDay        decimal.Decimal `json:"irrfRateDay"`
	DarfCode           string          `json:"darfCode"`
	Label              string          `json:"label"`
}

// TaxRuleSet maps each asset class to its rule. It is injected into the tax
// engine so rule updates never require code changes.
type TaxRuleSet map[AssetType]TaxRule

// Rule returns the rule for an asset class and whether one is configured.
func (s TaxRuleSet) Rule(t AssetType) (TaxRule, bool) {
	r, ok := s[t]
	return r, ok
}

// LossBalance is a persisted snapshot of one asset class's unconsumed loss
// balance after a given period. The balance is never positive.
type LossBalance struct {
	AssetType AssetType       `json:"assetType"`
	Balance   decimal.Decimal `json:"balance"`
	Period    Period          `json:"period"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}
