package testutil

import (
	"database/sql"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/crypto"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/repository"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
)

var (
	testCipherOnce sync.Once
	testCipher     *crypto.Cipher
)

// TestCipher returns a process-wide field cipher backed by a generated
// fernet key. Factories and test services share this cipher so encrypted
// operation columns round-trip within a test run.
func TestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()

	testCipherOnce.Do(func() {
		key, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("Failed to generate test fernet key: %v", err)
		}
		testCipher, err = crypto.NewCipher(key)
		if err != nil {
			t.Fatalf("Failed to create test cipher: %v", err)
		}
	})

	return testCipher
}

func NewTestAssetService(t *testing.T, db *sql.DB) *service.AssetService {
	t.Helper()

	assetRepo := repository.NewAssetRepository(db)

	return service.NewAssetService(assetRepo)
}

func NewTestOperationService(t *testing.T, db *sql.DB) *service.OperationService {
	t.Helper()

	operationRepo := repository.NewOperationRepository(db, TestCipher(t))
	assetRepo := repository.NewAssetRepository(db)
	reportCache := repository.NewReportCacheRepository(db)

	return service.NewOperationService(
		operationRepo,
		assetRepo,
		reportCache,
	)
}

func NewTestTaxService(t *testing.T, db *sql.DB) *service.TaxService {
	t.Helper()

	operationRepo := repository.NewOperationRepository(db, TestCipher(t))
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	lossRepo := repository.NewLossBalanceRepository(db)
	reportCache := repository.NewReportCacheRepository(db)

	return service.NewTaxService(
		operationRepo,
		taxRuleRepo,
		lossRepo,
		reportCache,
	)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("PETR")
//	// Returns: "PETR1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeAssetName generates a unique asset name for testing.
//
// Example usage:
//
//	name := testutil.MakeAssetName("Test Asset")
//	// Returns: "Test Asset XYZ789"
func MakeAssetName(base string) string {
	if base == "" {
		base = "Asset"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
