package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations; the default
// tax-rule rows from the seed migration are inserted as well so services
// behave like they do against a migrated database.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Asset table
		CREATE TABLE IF NOT EXISTS asset (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			symbol VARCHAR(20) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			asset_type VARCHAR(20) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Operation table (monetary columns hold fernet tokens)
		CREATE TABLE IF NOT EXISTS operation (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			asset_id VARCHAR(36) NOT NULL,
			kind VARCHAR(10) NOT NULL,
			quantity TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			total_value TEXT NOT NULL,
			fees TEXT NOT NULL,
			source_withheld TEXT NOT NULL,
			date DATE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(asset_id) REFERENCES asset(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_operation_asset_date ON operation(asset_id, date);

		-- Tax rule table
		CREATE TABLE IF NOT EXISTS tax_rule (
			asset_type VARCHAR(20) NOT NULL PRIMARY KEY,
			exemption_threshold TEXT NOT NULL,
			swing_rate TEXT NOT NULL,
			day_rate TEXT NOT NULL,
			irrf_swing_rate TEXT NOT NULL,
			irrf_day_rate TEXT NOT NULL,
			darf_code VARCHAR(10) NOT NULL,
			label VARCHAR(100) NOT NULL
		);

		-- Loss balance snapshots
		CREATE TABLE IF NOT EXISTS loss_balance (
			asset_type VARCHAR(20) NOT NULL PRIMARY KEY,
			balance TEXT NOT NULL,
			period VARCHAR(7) NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Materialized monthly reports
		CREATE TABLE IF NOT EXISTS tax_report_cache (
			period VARCHAR(7) NOT NULL PRIMARY KEY,
			payload TEXT NOT NULL,
			computed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		INSERT INTO tax_rule (asset_type, exemption_threshold, swing_rate, day_rate, irrf_swing_rate, irrf_day_rate, darf_code, label) VALUES
			('stock',        '20000', '0.15', '0.20', '0.00005', '0.01', '6015', 'Stocks'),
			('etf',          '0',     '0.15', '0.20', '0.00005', '0.01', '6015', 'Exchange-traded funds'),
			('bdr',          '0',     '0.15', '0.20', '0.00005', '0.01', '6015', 'Depositary receipts'),
			('fii',          '0',     '0.20', '0.20', '0.00005', '0.01', '6015', 'Real estate funds'),
			('fixed_income', '0',     '0.15', '0.15', '0',       '0',    '6015', 'Fixed income'),
			('crypto',       '35000', '0.15', '0.15', '0',       '0',    '4600', 'Crypto assets');
	`

	_, err := db.Exec(schema)
	return err
}
