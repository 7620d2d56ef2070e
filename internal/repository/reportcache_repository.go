package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// ReportCacheRepository materializes computed monthly reports. The cache is
// never a source of truth: entries are dropped whenever an operation in or
// before their month changes, and rebuilt on demand.
type ReportCacheRepository struct {
	db *sql.DB
}

// NewReportCacheRepository creates a new ReportCacheRepository with the provided database connection.
func NewReportCacheRepository(db *sql.DB) *ReportCacheRepository {
	return &ReportCacheRepository{db: db}
}

// GetReport retrieves a cached report for the given month.
// Returns ErrReportNotFound when no entry exists.
func (r *ReportCacheRepository) GetReport(period model.Period) (*model.TaxReport, error) {
	var payload string

	err := r.db.QueryRow(`SELECT payload FROM tax_report_cache WHERE period = ?`, period.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_report_cache table: %w", err)
	}

	var report model.TaxReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("%w: cached report for %s is unreadable: %v",
			apperrors.ErrDataInconsistency, period, err)
	}

	return &report, nil
}

// PutReport stores a computed report for its month, replacing any previous entry.
func (r *ReportCacheRepository) PutReport(ctx context.Context, report *model.TaxReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	query := `
		INSERT INTO tax_report_cache (period, payload, computed_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(period) DO UPDATE SET
			payload = excluded.payload,
			computed_at = CURRENT_TIMESTAMP
	`

	_, err = r.db.ExecContext(ctx, query, report.Period.String(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert cached report: %w", err)
	}

	return nil
}

// InvalidateFrom drops every cached report for the given month and all later
// months. Editing or backdating an operation invalidates its month and every
// month after it, because loss balances compound forward.
func (r *ReportCacheRepository) InvalidateFrom(ctx context.Context, period model.Period) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tax_report_cache WHERE period >= ?`, period.String())
	if err != nil {
		return fmt.Errorf("failed to invalidate cached reports: %w", err)
	}

	return nil
}
