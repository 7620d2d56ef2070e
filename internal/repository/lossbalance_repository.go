package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// LossBalanceRepository persists per-asset-class loss-carryforward snapshots.
// The snapshots are derived state: the engine always recomputes balances from
// the operation history, and the stored rows only record the latest result
// for quick display.
type LossBalanceRepository struct {
	db *sql.DB
}

// NewLossBalanceRepository creates a new LossBalanceRepository with the provided database connection.
func NewLossBalanceRepository(db *sql.DB) *LossBalanceRepository {
	return &LossBalanceRepository{db: db}
}

// GetBalances retrieves all stored loss balances keyed by asset class.
func (r *LossBalanceRepository) GetBalances() ([]model.LossBalance, error) {
	query := `
		SELECT asset_type, balance, period, updated_at
		FROM loss_balance
		ORDER BY asset_type ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query loss_balance table: %w", err)
	}
	defer rows.Close()

	balances := []model.LossBalance{}

	for rows.Next() {
		var balance model.LossBalance
		var assetTypeStr, balanceStr, periodStr, updatedAtStr string

		err := rows.Scan(&assetTypeStr, &balanceStr, &periodStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loss_balance table results: %w", err)
		}

		if balance.AssetType, err = model.ParseAssetType(assetTypeStr); err != nil {
			return nil, fmt.Errorf("failed to parse asset type: %w", err)
		}
		if balance.Balance, err = decimal.NewFromString(balanceStr); err != nil {
			return nil, fmt.Errorf("invalid loss balance for %s: %w", balance.AssetType, err)
		}
		if balance.Period, err = model.ParsePeriod(periodStr); err != nil {
			return nil, fmt.Errorf("invalid loss balance period for %s: %w", balance.AssetType, err)
		}
		if balance.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		balances = append(balances, balance)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loss_balance table: %w", err)
	}

	return balances, nil
}

// UpsertBalance stores the balance snapshot for one asset class after the
// given period.
func (r *LossBalanceRepository) UpsertBalance(ctx context.Context, assetType model.AssetType, balance decimal.Decimal, period model.Period) error {
	query := `
		INSERT INTO loss_balance (asset_type, balance, period, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(asset_type) DO UPDATE SET
			balance = excluded.balance,
			period = excluded.period,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, assetType.String(), balance.String(), period.String())
	if err != nil {
		return fmt.Errorf("failed to upsert loss balance: %w", err)
	}

	return nil
}
