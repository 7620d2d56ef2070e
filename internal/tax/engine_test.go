package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/tax"
)

func testRules() model.TaxRuleSet {
	return model.TaxRuleSet{
		model.AssetTypeStock: {
			AssetType:          model.AssetTypeStock,
			ExemptionThreshold: decimal.NewFromInt(20000),
			SwingTaxRate:       decimal.RequireFromString("0.15"),
			DayTaxRate:         decimal.RequireFromString("0.20"),
			IrrfRateSwing:      decimal.RequireFromString("0.00005"),
			IrrfRateDay:        decimal.RequireFromString("0.01"),
			DarfCode:           "6015",
		},
		model.AssetTypeFII: {
			AssetType:          model.AssetTypeFII,
			ExemptionThreshold: decimal.Zero,
			SwingTaxRate:       decimal.RequireFromString("0.20"),
			DayTaxRate:         decimal.RequireFromString("0.20"),
			DarfCode:           "6015",
		},
		model.AssetTypeCrypto: {
			AssetType:          model.AssetTypeCrypto,
			ExemptionThreshold: decimal.NewFromInt(35000),
			SwingTaxRate:       decimal.RequireFromString("0.15"),
			DayTaxRate:         decimal.RequireFromString("0.15"),
			DarfCode:           "4600",
		},
	}
}

func period(s string) model.Period {
	p, err := model.ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// TestEngine_MonthlyReport tests the end-to-end monthly computation.
//
// WHY: The engine is where ledger, classifier, carryforward and rates meet;
// these scenarios pin the cross-component semantics that no unit test covers.
func TestEngine_MonthlyReport(t *testing.T) {
	engine := tax.NewEngine(testRules())

	t.Run("taxable swing month over the exemption threshold", func(t *testing.T) {
		// Sales of 25000 with a 5000 gain: over the stock threshold, taxed at 15%.
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			op(model.OperationSell, "2024-02-05", 1000, 25),
		}

		report, diags, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}
		if len(diags) != 0 {
			t.Fatalf("Expected no diagnostics, got %v", diags)
		}

		detail, ok := report.ByType[model.AssetTypeStock]
		if !ok {
			t.Fatal("Expected a stock detail in the report")
		}
		if detail.SwingTrade.Exempt {
			t.Error("Expected month over the threshold to be taxable")
		}
		if !detail.SwingTrade.Net.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("Expected net 5000, got %s", detail.SwingTrade.Net)
		}
		if !detail.TaxDue.Equal(decimal.NewFromInt(750)) {
			t.Errorf("Expected tax due 750, got %s", detail.TaxDue)
		}
	})

	t.Run("swing month under the exemption threshold owes nothing", func(t *testing.T) {
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 100, 20),
			op(model.OperationSell, "2024-02-05", 100, 25), // sales 2500
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail := report.ByType[model.AssetTypeStock]
		if !detail.SwingTrade.Exempt {
			t.Error("Expected sales of 2500 to be exempt")
		}
		if !detail.TaxDue.IsZero() {
			t.Errorf("Expected no tax due, got %s", detail.TaxDue)
		}
		if report.Summary.HasTaxDue {
			t.Error("Expected summary to report no tax due")
		}
	})

	t.Run("exempt losses are not carried forward", func(t *testing.T) {
		// A loss in an exempt month must not seed the loss balance.
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 100, 25),
			op(model.OperationSell, "2024-02-05", 100, 20), // sales 2000, loss 500, exempt
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if got := report.AccumulatedLosses[model.AssetTypeStock]; !got.IsZero() {
			t.Errorf("Expected no loss accrual from an exempt month, got %s", got)
		}
	})

	t.Run("loss carried into a later month reduces the taxable base", func(t *testing.T) {
		// February: FII loss of 1000 (no exemption for FII).
		// March: FII gain of 1500; taxable base 500 at 20% -> 100.
		buy := op(model.OperationBuy, "2024-01-10", 200, 100)
		buy.AssetType = model.AssetTypeFII
		lossSell := op(model.OperationSell, "2024-02-05", 100, 90)
		lossSell.AssetType = model.AssetTypeFII
		gainSell := op(model.OperationSell, "2024-03-05", 100, 115)
		gainSell.AssetType = model.AssetTypeFII

		report, _, err := engine.MonthlyReport([]model.Operation{buy, lossSell, gainSell}, period("2024-03"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail := report.ByType[model.AssetTypeFII]
		if !detail.AccumulatedLossUsed.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected 1000 of carried loss used, got %s", detail.AccumulatedLossUsed)
		}
		if !detail.TaxDue.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected tax due 100, got %s", detail.TaxDue)
		}
		if got := report.AccumulatedLosses[model.AssetTypeFII]; !got.IsZero() {
			t.Errorf("Expected loss balance exhausted, got %s", got)
		}
	})

	t.Run("loss month alone leaves a negative balance", func(t *testing.T) {
		buy := op(model.OperationBuy, "2024-01-10", 200, 100)
		buy.AssetType = model.AssetTypeFII
		sell := op(model.OperationSell, "2024-02-05", 100, 90)
		sell.AssetType = model.AssetTypeFII

		report, _, err := engine.MonthlyReport([]model.Operation{buy, sell}, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if got := report.AccumulatedLosses[model.AssetTypeFII]; !got.Equal(decimal.NewFromInt(-1000)) {
			t.Errorf("Expected loss balance -1000, got %s", got)
		}
	})

	t.Run("carried loss settles swing trades before day trades", func(t *testing.T) {
		// February: stock loss of 1000 on sales of 21000 (non-exempt) seeds
		// the balance. March has both a swing net of 1000 (sales 21000, over
		// the threshold) and a day net of 800 in the same month: the balance
		// must be consumed by the swing net first, leaving the full day net
		// taxed at 20%. The rates differ, so a flipped settlement order would
		// produce a different tax (swing 120 instead of day 160).
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 22),
			op(model.OperationSell, "2024-02-05", 1000, 21),
			op(model.OperationBuy, "2024-02-10", 1000, 20),
			op(model.OperationSell, "2024-03-05", 1000, 21),
		}
		dayBuy := op(model.OperationBuy, "2024-03-05", 100, 100)
		dayBuy.AssetID = "asset-2"
		daySell := op(model.OperationSell, "2024-03-05", 100, 108)
		daySell.AssetID = "asset-2"
		ops = append(ops, dayBuy, daySell)

		report, _, err := engine.MonthlyReport(ops, period("2024-03"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail := report.ByType[model.AssetTypeStock]
		if !detail.SwingTrade.Tax.IsZero() {
			t.Errorf("Expected swing net fully offset by the carried loss, got tax %s", detail.SwingTrade.Tax)
		}
		if !detail.DayTrade.Tax.Equal(decimal.NewFromInt(160)) {
			t.Errorf("Expected day tax 160 on the unoffset net, got %s", detail.DayTrade.Tax)
		}
		if !detail.AccumulatedLossUsed.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected 1000 of carried loss used, got %s", detail.AccumulatedLossUsed)
		}
		if got := report.AccumulatedLosses[model.AssetTypeStock]; !got.IsZero() {
			t.Errorf("Expected loss balance exhausted, got %s", got)
		}
		if !detail.TaxDue.Equal(decimal.NewFromInt(160)) {
			t.Errorf("Expected tax due 160, got %s", detail.TaxDue)
		}
	})

	t.Run("day-trades are taxed at the day rate and never exempt", func(t *testing.T) {
		// Same-day round trip: sales 1100 (under threshold) but day-trades
		// get no exemption. Gain 100 at 20% -> 20.
		ops := []model.Operation{
			op(model.OperationBuy, "2024-02-05", 100, 10),
			op(model.OperationSell, "2024-02-05", 100, 11),
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail := report.ByType[model.AssetTypeStock]
		if !detail.DayTrade.Net.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected day-trade net 100, got %s", detail.DayTrade.Net)
		}
		if !detail.TaxDue.Equal(decimal.NewFromInt(20)) {
			t.Errorf("Expected tax due 20, got %s", detail.TaxDue)
		}
		if len(report.Operations) != 1 {
			t.Fatalf("Expected 1 realized gain in the report, got %d", len(report.Operations))
		}
		if report.Operations[0].TradeType != model.TradeTypeDay {
			t.Errorf("Expected day-trade classification, got %s", report.Operations[0].TradeType)
		}
	})

	t.Run("withholding credits against the month's tax", func(t *testing.T) {
		sell := op(model.OperationSell, "2024-02-05", 1000, 25)
		sell.SourceWithheld = decimal.RequireFromString("1.25")
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			sell,
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail := report.ByType[model.AssetTypeStock]
		if !detail.Irrf.Equal(decimal.RequireFromString("1.25")) {
			t.Errorf("Expected withheld credit 1.25, got %s", detail.Irrf)
		}
		// 750 - 1.25
		if !detail.TaxDue.Equal(decimal.RequireFromString("748.75")) {
			t.Errorf("Expected tax due 748.75, got %s", detail.TaxDue)
		}
		// The statutory withholding rates ride along for cross-checking the
		// declared credit: 25000 * 0.00005 = 1.25.
		if !detail.SwingTrade.IrrfRate.Equal(decimal.RequireFromString("0.00005")) {
			t.Errorf("Expected swing withholding rate 0.00005, got %s", detail.SwingTrade.IrrfRate)
		}
		if !detail.DayTrade.IrrfRate.Equal(decimal.RequireFromString("0.01")) {
			t.Errorf("Expected day withholding rate 0.01, got %s", detail.DayTrade.IrrfRate)
		}
	})

	t.Run("withholding never turns tax due negative", func(t *testing.T) {
		sell := op(model.OperationSell, "2024-02-05", 100, 25) // exempt month
		sell.SourceWithheld = decimal.NewFromInt(5)
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 100, 20),
			sell,
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if got := report.ByType[model.AssetTypeStock].TaxDue; !got.IsZero() {
			t.Errorf("Expected tax due floored at zero, got %s", got)
		}
	})

	t.Run("dividends are reported but never taxed", func(t *testing.T) {
		dividend := op(model.OperationDividend, "2024-02-15", 0, 0)
		dividend.AssetType = model.AssetTypeFII
		dividend.TotalValue = decimal.NewFromInt(350)
		buy := op(model.OperationBuy, "2024-01-10", 100, 10)
		buy.AssetType = model.AssetTypeFII

		report, _, err := engine.MonthlyReport([]model.Operation{buy, dividend}, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		detail, ok := report.ByType[model.AssetTypeFII]
		if !ok {
			t.Fatal("Expected a FII detail for the dividend month")
		}
		if !detail.Dividends.Equal(decimal.NewFromInt(350)) {
			t.Errorf("Expected dividends 350, got %s", detail.Dividends)
		}
		if !detail.TaxDue.IsZero() {
			t.Errorf("Expected no tax from dividends, got %s", detail.TaxDue)
		}
	})

	t.Run("operations after the requested month are ignored", func(t *testing.T) {
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			op(model.OperationSell, "2024-02-05", 1000, 25),
			op(model.OperationBuy, "2024-03-01", 500, 30), // future, must not matter
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if !report.ByType[model.AssetTypeStock].TaxDue.Equal(decimal.NewFromInt(750)) {
			t.Errorf("Expected tax due 750 regardless of future operations, got %s",
				report.ByType[model.AssetTypeStock].TaxDue)
		}
	})

	t.Run("summary totals match per-class details", func(t *testing.T) {
		fiiBuy := op(model.OperationBuy, "2024-01-10", 100, 50)
		fiiBuy.AssetID, fiiBuy.AssetType = "fii-1", model.AssetTypeFII
		fiiSell := op(model.OperationSell, "2024-02-10", 100, 60)
		fiiSell.AssetID, fiiSell.AssetType = "fii-1", model.AssetTypeFII

		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			op(model.OperationSell, "2024-02-05", 1000, 25),
			fiiBuy,
			fiiSell,
		}

		report, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		total := decimal.Zero
		for _, detail := range report.ByType {
			total = total.Add(detail.TaxDue)
		}
		if !report.Summary.TaxPayable.Equal(total) {
			t.Errorf("Summary tax payable %s does not match per-class sum %s",
				report.Summary.TaxPayable, total)
		}
		if !report.Summary.HasTaxDue {
			t.Error("Expected summary to flag tax due")
		}
		// Both classes share DARF code 6015; it must appear once.
		if len(report.Summary.DarfCodes) != 1 || report.Summary.DarfCodes[0] != "6015" {
			t.Errorf("Expected deduplicated DARF codes [6015], got %v", report.Summary.DarfCodes)
		}
	})

	t.Run("recomputation is deterministic", func(t *testing.T) {
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			op(model.OperationSell, "2024-02-05", 400, 25),
			op(model.OperationSell, "2024-02-20", 300, 18),
		}

		first, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}
		second, _, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if !first.Summary.TaxPayable.Equal(second.Summary.TaxPayable) {
			t.Errorf("Expected identical tax payable, got %s and %s",
				first.Summary.TaxPayable, second.Summary.TaxPayable)
		}
		if !first.Summary.NetResult.Equal(second.Summary.NetResult) {
			t.Errorf("Expected identical net result, got %s and %s",
				first.Summary.NetResult, second.Summary.NetResult)
		}
	})
}

// TestEngine_Diagnostics tests the partial-report failure modes.
//
// WHY: One bad record must not block the whole month. Each failure mode has a
// distinct blast radius: operation, asset, or asset class.
func TestEngine_Diagnostics(t *testing.T) {
	engine := tax.NewEngine(testRules())

	t.Run("malformed operation is skipped with a diagnostic", func(t *testing.T) {
		bad := op(model.OperationBuy, "2024-01-15", 0, 10) // zero quantity
		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 1000, 20),
			bad,
			op(model.OperationSell, "2024-02-05", 1000, 25),
		}

		report, diags, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if len(diags) != 1 {
			t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
		}
		if diags[0].OperationID != bad.ID {
			t.Errorf("Expected diagnostic for operation %s, got %s", bad.ID, diags[0].OperationID)
		}
		// The valid operations still produce the report.
		if !report.ByType[model.AssetTypeStock].TaxDue.Equal(decimal.NewFromInt(750)) {
			t.Errorf("Expected tax due 750 from the valid operations, got %s",
				report.ByType[model.AssetTypeStock].TaxDue)
		}
	})

	t.Run("oversold asset is dropped entirely", func(t *testing.T) {
		oversold := op(model.OperationSell, "2024-02-05", 500, 25) // only 100 held
		healthyBuy := op(model.OperationBuy, "2024-01-10", 100, 50)
		healthyBuy.AssetID = "asset-2"
		healthySell := op(model.OperationSell, "2024-02-10", 100, 300)
		healthySell.AssetID = "asset-2"

		ops := []model.Operation{
			op(model.OperationBuy, "2024-01-10", 100, 20),
			oversold,
			healthyBuy,
			healthySell,
		}

		report, diags, err := engine.MonthlyReport(ops, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if len(diags) != 1 {
			t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
		}
		if diags[0].AssetID != "asset-1" {
			t.Errorf("Expected diagnostic for asset-1, got %s", diags[0].AssetID)
		}

		// Only the healthy asset contributes: sales 30000, gain 25000 at 15%.
		detail := report.ByType[model.AssetTypeStock]
		if !detail.SwingTrade.Sales.Equal(decimal.NewFromInt(30000)) {
			t.Errorf("Expected sales 30000 from the healthy asset only, got %s", detail.SwingTrade.Sales)
		}
		for _, g := range report.Operations {
			if g.AssetID == "asset-1" {
				t.Error("Oversold asset must not appear in the report operations")
			}
		}
	})

	t.Run("asset class without a rule is omitted", func(t *testing.T) {
		buy := op(model.OperationBuy, "2024-01-10", 100, 10)
		buy.AssetType = model.AssetTypeBDR // no rule configured in testRules
		sell := op(model.OperationSell, "2024-02-05", 100, 15)
		sell.AssetType = model.AssetTypeBDR

		report, diags, err := engine.MonthlyReport([]model.Operation{buy, sell}, period("2024-02"))
		if err != nil {
			t.Fatalf("MonthlyReport() returned unexpected error: %v", err)
		}

		if _, ok := report.ByType[model.AssetTypeBDR]; ok {
			t.Error("Expected ruleless class to be omitted from byType")
		}
		if len(diags) != 1 {
			t.Fatalf("Expected 1 diagnostic for the missing rule, got %d", len(diags))
		}
		if diags[0].AssetType != model.AssetTypeBDR {
			t.Errorf("Expected diagnostic for bdr, got %s", diags[0].AssetType)
		}
	})
}
