package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/repository"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/tax"
)

// MonthlyReportResult pairs a computed report with the diagnostics the engine
// produced while computing it.
type MonthlyReportResult struct {
	Report      *model.TaxReport `json:"report"`
	Diagnostics []tax.Diagnostic `json:"diagnostics,omitempty"`
	Cached      bool             `json:"cached"`
}

// TaxService orchestrates monthly report computation: it loads the rule
// table and operation history, runs the tax engine, persists the resulting
// loss-balance snapshot, and materializes the report in the cache.
type TaxService struct {
	operationRepo *repository.OperationRepository
	taxRuleRepo   *repository.TaxRuleRepository
	lossRepo      *repository.LossBalanceRepository
	reportCache   *repository.ReportCacheRepository
}

// NewTaxService creates a new TaxService with the provided repository dependencies.
func NewTaxService(
	operationRepo *repository.OperationRepository,
	taxRuleRepo *repository.TaxRuleRepository,
	lossRepo *repository.LossBalanceRepository,
	reportCache *repository.ReportCacheRepository,
) *TaxService {
	return &TaxService{
		operationRepo: operationRepo,
		taxRuleRepo:   taxRuleRepo,
		lossRepo:      lossRepo,
		reportCache:   reportCache,
	}
}

// GetMonthlyReport returns the report for the given month, serving the cached
// materialization when one exists and computing (and caching) it otherwise.
// Cached reports carry no diagnostics; reports with diagnostics are never cached.
func (s *TaxService) GetMonthlyReport(ctx context.Context, period model.Period) (*MonthlyReportResult, error) {
	if cached, err := s.reportCache.GetReport(period); err == nil {
		return &MonthlyReportResult{Report: cached, Cached: true}, nil
	}

	return s.ComputeMonthlyReport(ctx, period)
}

// ComputeMonthlyReport recomputes the report for the given month from the
// full operation history, ignoring any cached entry.
func (s *TaxService) ComputeMonthlyReport(ctx context.Context, period model.Period) (*MonthlyReportResult, error) {
	rules, err := s.taxRuleRepo.GetRuleSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTaxRules, err)
	}

	operations, err := s.operationRepo.GetOperations()
	if err != nil {
		return nil, fmt.Errorf("failed to load operations: %w", err)
	}

	engine := tax.NewEngine(rules)
	report, diagnostics, err := engine.MonthlyReport(operations, period)
	if err != nil {
		return nil, fmt.Errorf("failed to compute report for %s: %w", period, err)
	}

	for assetType, balance := range report.AccumulatedLosses {
		if err := s.lossRepo.UpsertBalance(ctx, assetType, balance, period); err != nil {
			return nil, err
		}
	}

	// A report computed with diagnostics is partial; keep it out of the cache
	// so the problem stays visible on every request until the data is fixed.
	if len(diagnostics) == 0 {
		if err := s.reportCache.PutReport(ctx, report); err != nil {
			return nil, err
		}
	}

	return &MonthlyReportResult{Report: report, Diagnostics: diagnostics}, nil
}

// GetLossBalances returns the persisted loss-balance snapshots.
func (s *TaxService) GetLossBalances() ([]model.LossBalance, error) {
	return s.lossRepo.GetBalances()
}

// RefreshCurrentMonth recomputes and caches the report for the current
// calendar month. Invoked by the scheduled refresh job.
func (s *TaxService) RefreshCurrentMonth(ctx context.Context) {
	period := model.PeriodOf(time.Now().UTC())

	result, err := s.ComputeMonthlyReport(ctx, period)
	if err != nil {
		log.Printf("Scheduled report refresh for %s failed: %v", period, err)
		return
	}

	log.Printf("Refreshed report for %s (%d diagnostics)", period, len(result.Diagnostics))
}
