package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// TaxRuleRepository provides data access methods for the tax_rule table.
// The rule table is configuration: it is seeded by a migration and can be
// replaced without code changes.
type TaxRuleRepository struct {
	db *sql.DB
}

// NewTaxRuleRepository creates a new TaxRuleRepository with the provided database connection.
func NewTaxRuleRepository(db *sql.DB) *TaxRuleRepository {
	return &TaxRuleRepository{db: db}
}

// GetRuleSet loads the complete rule table keyed by asset class.
func (r *TaxRuleRepository) GetRuleSet() (model.TaxRuleSet, error) {
	query := `
		SELECT asset_type, exemption_threshold, swing_rate, day_rate, irrf_swing_rate, irrf_day_rate, darf_code, label
		FROM tax_rule
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_rule table: %w", err)
	}
	defer rows.Close()

	rules := make(model.TaxRuleSet)

	for rows.Next() {
		var rule model.TaxRule
		var assetTypeStr, threshold, swingRate, dayRate, irrfSwing, irrfDay string

		err := rows.Scan(&assetTypeStr, &threshold, &swingRate, &dayRate, &irrfSwing, &irrfDay, &rule.DarfCode, &rule.Label)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax_rule table results: %w", err)
		}

		if rule.AssetType, err = model.ParseAssetType(assetTypeStr); err != nil {
			return nil, fmt.Errorf("failed to parse asset type: %w", err)
		}
		if rule.ExemptionThreshold, err = decimal.NewFromString(threshold); err != nil {
			return nil, fmt.Errorf("invalid exemption threshold for %s: %w", rule.AssetType, err)
		}
		if rule.SwingTaxRate, err = decimal.NewFromString(swingRate); err != nil {
			return nil, fmt.Errorf("invalid swing rate for %s: %w", rule.AssetType, err)
		}
		if rule.DayTaxRate, err = decimal.NewFromString(dayRate); err != nil {
			return nil, fmt.Errorf("invalid day rate for %s: %w", rule.AssetType, err)
		}
		if rule.IrrfRateSwing, err = decimal.NewFromString(irrfSwing); err != nil {
			return nil, fmt.Errorf("invalid swing withholding rate for %s: %w", rule.AssetType, err)
		}
		if rule.IrrfRateDay, err = decimal.NewFromString(irrfDay); err != nil {
			return nil, fmt.Errorf("invalid day withholding rate for %s: %w", rule.AssetType, err)
		}

		rules[rule.AssetType] = rule
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax_rule table: %w", err)
	}

	return rules, nil
}
