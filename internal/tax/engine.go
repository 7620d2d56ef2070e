// Package tax implements the position ledger and capital-gains tax engine.
//
// The engine is a pure, synchronous computation over a fully-materialized
// operation history: it replays each asset's operations in chronological
// order to derive cost basis and realized gains, classifies every sale as
// day-trade or swing-trade, settles monthly aggregates against a per-class
// loss-carryforward ledger and an injected tax-rule table, and assembles the
// report for one requested month. Supplying operations and persisting results
// are the caller's responsibility.
package tax

import (
	"runtime"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// Engine computes monthly tax reports from an operation history and an
// injected rule table.
type Engine struct {
	rules model.TaxRuleSet
}

// NewEngine creates an engine over the given rule table.
func NewEngine(rules model.TaxRuleSet) *Engine {
	return &Engine{rules: rules}
}

// assetReplay is the outcome of replaying one asset's operation history.
type assetReplay struct {
	assetID   string
	assetType model.AssetType

	gains        []model.RealizedGain
	sellWithheld map[string]decimal.Decimal
	dividends    map[model.Period]decimal.Decimal
	diagnostics  []Diagnostic
	aborted      bool
}

// monthClass buckets one month's classified gains for one asset class.
type monthClass struct {
	swing     []model.RealizedGain
	day       []model.RealizedGain
	irrf      decimal.Decimal
	dividends decimal.Decimal
	active    bool
}

// MonthlyReport computes the tax report for one calendar month.
//
// The full history up to and including the requested month is replayed from
// inception: recomputing any month after operations were edited or backdated
// therefore always yields a consistent result. Given an identical operation
// set the computation is deterministic.
//
// Replay is fanned out per asset (cost basis is independent across assets)
// while the loss-carryforward stage stays strictly serial per asset class in
// ascending month order. Problems are reported as diagnostics alongside the
// partial report: malformed operations are skipped, an oversold asset is
// omitted entirely, and an asset class without a tax rule is left out of
// byType rather than zeroed.
func (e *Engine) MonthlyReport(ops []model.Operation, period model.Period) (*model.TaxReport, []Diagnostic, error) {
	// Operations arrive ordered by insertion; a stable sort keeps that order
	// as the tie-breaker within a date.
	history := make([]model.Operation, 0, len(ops))
	for _, op := range ops {
		if !model.PeriodOf(op.Date).After(period) {
			history = append(history, op)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	classifier := NewTradeClassifier(history)
	replays, diagnostics := e.replayAssets(history)

	buckets, periods := e.bucketByMonth(replays, classifier)

	losses := NewLossCarryforward()
	aggregator := NewMonthlyAggregator(NewRateResolver(e.rules), losses)

	report := &model.TaxReport{
		Period:     period,
		ByType:     make(map[model.AssetType]model.MonthlyTypeDetail),
		Operations: []model.RealizedGain{},
	}
	missingRule := make(map[model.AssetType]bool)

	for _, p := range periods {
		if p.After(period) {
			break
		}
		byClass := buckets[p]
		for _, assetType := range model.AssetTypes {
			bucket, ok := byClass[assetType]
			if !ok || !bucket.active {
				continue
			}
			detail, err := aggregator.Aggregate(assetType, bucket.swing, bucket.day, bucket.irrf, bucket.dividends)
			if err != nil {
				if !missingRule[assetType] {
					missingRule[assetType] = true
					diagnostics = append(diagnostics, assetClassDiagnostic(assetType, err))
				}
				continue
			}
			if p == period {
				report.ByType[assetType] = detail
				report.Operations = append(report.Operations, bucket.swing...)
				report.Operations = append(report.Operations, bucket.day...)
			}
		}
	}

	sort.SliceStable(report.Operations, func(i, j int) bool {
		return report.Operations[i].Date.Before(report.Operations[j].Date)
	})
	report.AccumulatedLosses = losses.Snapshot()
	report.Summary = buildSummary(report.ByType)

	return report, diagnostics, nil
}

// replayAssets fans the position-ledger replay out across assets and merges
// the results back in first-seen asset order so the outcome is deterministic.
func (e *Engine) replayAssets(history []model.Operation) ([]assetReplay, []Diagnostic) {
	var assetOrder []string
	opsByAsset := make(map[string][]model.Operation)
	for _, op := range history {
		if _, seen := opsByAsset[op.AssetID]; !seen {
			assetOrder = append(assetOrder, op.AssetID)
		}
		opsByAsset[op.AssetID] = append(opsByAsset[op.AssetID], op)
	}

	results := make([]assetReplay, len(assetOrder))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, assetID := range assetOrder {
		i, assetID := i, assetID
		g.Go(func() error {
			results[i] = replayAsset(assetID, opsByAsset[assetID])
			return nil
		})
	}
	// Replay failures surface as diagnostics, never as goroutine errors.
	_ = g.Wait()

	var diagnostics []Diagnostic
	replays := make([]assetReplay, 0, len(results))
	for _, r := range results {
		diagnostics = append(diagnostics, r.diagnostics...)
		if !r.aborted {
			replays = append(replays, r)
		}
	}
	return replays, diagnostics
}

// replayAsset runs one asset's operations through a fresh position ledger.
func replayAsset(assetID string, ops []model.Operation) assetReplay {
	result := assetReplay{
		assetID:      assetID,
		sellWithheld: make(map[string]decimal.Decimal),
		dividends:    make(map[model.Period]decimal.Decimal),
	}
	if len(ops) > 0 {
		result.assetType = ops[0].AssetType
	}

	ledger := NewPositionLedger(assetID, result.assetType)
	for _, op := range ops {
		if err := ValidateOperation(op); err != nil {
			result.diagnostics = append(result.diagnostics, operationDiagnostic(op, err))
			continue
		}
		if op.Kind == model.OperationDividend {
			p := model.PeriodOf(op.Date)
			result.dividends[p] = result.dividends[p].Add(op.TotalValue)
			continue
		}
		gain, err := ledger.Apply(op)
		if err != nil {
			// Missing buys upstream: the asset's numbers cannot be trusted,
			// so the whole asset is dropped from the report.
			result.diagnostics = append(result.diagnostics, assetDiagnostic(assetID, result.assetType, err))
			result.aborted = true
			return result
		}
		if gain != nil {
			result.gains = append(result.gains, *gain)
			if op.SourceWithheld.IsPositive() {
				result.sellWithheld[op.ID] = op.SourceWithheld
			}
		}
	}
	return result
}

// bucketByMonth classifies every realized gain and groups gains, withheld
// amounts and dividend income by (month, asset class). It returns the buckets
// plus the sorted list of months with activity.
func (e *Engine) bucketByMonth(replays []assetReplay, classifier *TradeClassifier) (map[model.Period]map[model.AssetType]*monthClass, []model.Period) {
	buckets := make(map[model.Period]map[model.AssetType]*monthClass)

	bucket := func(p model.Period, t model.AssetType) *monthClass {
		byClass, ok := buckets[p]
		if !ok {
			byClass = make(map[model.AssetType]*monthClass)
			buckets[p] = byClass
		}
		b, ok := byClass[t]
		if !ok {
			b = &monthClass{}
			byClass[t] = b
		}
		return b
	}

	for _, r := range replays {
		for _, gain := range r.gains {
			gain.TradeType = classifier.Classify(gain.AssetID, gain.Date)
			b := bucket(model.PeriodOf(gain.Date), gain.AssetType)
			b.active = true
			if gain.TradeType == model.TradeTypeDay {
				b.day = append(b.day, gain)
			} else {
				b.swing = append(b.swing, gain)
			}
			if withheld, ok := r.sellWithheld[gain.OperationID]; ok {
				b.irrf = b.irrf.Add(withheld)
			}
		}
		for p, amount := range r.dividends {
			b := bucket(p, r.assetType)
			b.active = true
			b.dividends = b.dividends.Add(amount)
		}
	}

	periods := make([]model.Period, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	return buckets, periods
}

// buildSummary computes the grand totals over the per-class details.
func buildSummary(byType map[model.AssetType]model.MonthlyTypeDetail) model.ReportSummary {
	summary := model.ReportSummary{
		TotalSales: decimal.Zero,
		NetResult:  decimal.Zero,
		TaxPayable: decimal.Zero,
		Irrf:       decimal.Zero,
		DarfCodes:  []string{},
	}
	seenCodes := make(map[string]bool)
	for _, assetType := range model.AssetTypes {
		detail, ok := byType[assetType]
		if !ok {
			continue
		}
		summary.TotalSales = summary.TotalSales.Add(detail.SwingTrade.Sales).Add(detail.DayTrade.Sales)
		summary.NetResult = summary.NetResult.Add(detail.SwingTrade.Net).Add(detail.DayTrade.Net)
		summary.TaxPayable = summary.TaxPayable.Add(detail.TaxDue)
		summary.Irrf = summary.Irrf.Add(detail.Irrf)
		if detail.TaxDue.IsPositive() && !seenCodes[detail.DarfCode] {
			seenCodes[detail.DarfCode] = true
			summary.DarfCodes = append(summary.DarfCodes, detail.DarfCode)
		}
	}
	summary.HasTaxDue = summary.TaxPayable.IsPositive()
	sort.Strings(summary.DarfCodes)
	return summary
}
