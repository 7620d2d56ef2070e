package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/handlers"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/testutil"
)

// TestTaxHandler_MonthlyReport tests the report endpoint.
//
// WHY: The month query parameter is the only input the endpoint takes; its
// validation and the cached/computed distinction are the HTTP-visible contract.
func TestTaxHandler_MonthlyReport(t *testing.T) {
	t.Run("returns the computed report", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTaxHandler(testutil.NewTestTaxService(t, db))

		asset := testutil.CreateAsset(t, db, model.AssetTypeStock)
		testutil.CreateBuy(t, db, asset.ID, "2024-01-10", 1000, "20")
		testutil.CreateSell(t, db, asset.ID, "2024-02-05", 1000, "25")

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tax/report",
			map[string]string{"month": "2024-02"})
		rec := httptest.NewRecorder()

		// Execute
		handler.MonthlyReport(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result service.MonthlyReportResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.Report == nil {
			t.Fatal("Expected a report in the response")
		}
		if result.Report.Period.String() != "2024-02" {
			t.Errorf("Expected period 2024-02, got %s", result.Report.Period)
		}
		if !result.Report.Summary.HasTaxDue {
			t.Error("Expected tax due for the taxable month")
		}
	})

	t.Run("missing month parameter returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTaxHandler(testutil.NewTestTaxService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/tax/report", nil)
		rec := httptest.NewRecorder()

		handler.MonthlyReport(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("malformed month parameter returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTaxHandler(testutil.NewTestTaxService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tax/report",
			map[string]string{"month": "February"})
		rec := httptest.NewRecorder()

		handler.MonthlyReport(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("month with no activity returns an empty report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTaxHandler(testutil.NewTestTaxService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tax/report",
			map[string]string{"month": "2024-06"})
		rec := httptest.NewRecorder()

		handler.MonthlyReport(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var result service.MonthlyReportResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(result.Report.ByType) != 0 {
			t.Errorf("Expected no class details for an empty month, got %d", len(result.Report.ByType))
		}
		if result.Report.Summary.HasTaxDue {
			t.Error("Expected no tax due for an empty month")
		}
	})
}

// TestTaxHandler_RefreshReport tests forced recomputation.
func TestTaxHandler_RefreshReport(t *testing.T) {
	t.Run("recomputes even when a cached report exists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaxService(t, db)
		handler := handlers.NewTaxHandler(svc)

		asset := testutil.CreateAsset(t, db, model.AssetTypeStock)
		testutil.CreateBuy(t, db, asset.ID, "2024-01-10", 1000, "20")
		testutil.CreateSell(t, db, asset.ID, "2024-02-05", 1000, "25")

		// Prime the cache, then refresh.
		prime := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tax/report",
			map[string]string{"month": "2024-02"})
		handler.MonthlyReport(httptest.NewRecorder(), prime)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/tax/report/refresh",
			map[string]string{"month": "2024-02"})
		rec := httptest.NewRecorder()

		handler.RefreshReport(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var result service.MonthlyReportResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.Cached {
			t.Error("Expected refresh to bypass the cache")
		}
	})
}

// TestTaxHandler_LossBalances tests the loss-snapshot endpoint.
func TestTaxHandler_LossBalances(t *testing.T) {
	t.Run("returns persisted balances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTaxService(t, db)
		handler := handlers.NewTaxHandler(svc)

		asset := testutil.CreateAsset(t, db, model.AssetTypeFII)
		testutil.CreateBuy(t, db, asset.ID, "2024-01-10", 200, "100")
		testutil.CreateSell(t, db, asset.ID, "2024-02-05", 100, "90")

		// Computing the month persists the snapshot.
		compute := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/tax/report",
			map[string]string{"month": "2024-02"})
		handler.MonthlyReport(httptest.NewRecorder(), compute)

		req := httptest.NewRequest(http.MethodGet, "/api/tax/losses", nil)
		rec := httptest.NewRecorder()

		handler.LossBalances(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var balances []model.LossBalance
		if err := json.NewDecoder(rec.Body).Decode(&balances); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		found := false
		for _, b := range balances {
			if b.AssetType == model.AssetTypeFII && b.Balance.IsNegative() {
				found = true
			}
		}
		if !found {
			t.Error("Expected a negative FII balance in the response")
		}
	})
}
