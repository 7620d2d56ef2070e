package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
)

// TaxHandler handles HTTP requests for the monthly tax report endpoints.
// All report outputs are derived from the operation history; there are no
// mutation endpoints for the engine itself.
type TaxHandler struct {
	taxService *service.TaxService
}

// NewTaxHandler creates a new TaxHandler with the provided service dependency.
func NewTaxHandler(taxService *service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// parsePeriodParam extracts and validates the month query parameter.
func parsePeriodParam(r *http.Request) (model.Period, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return model.Period{}, apperrors.ErrInvalidPeriod
	}
	return model.ParsePeriod(month)
}

// MonthlyReport handles GET requests to retrieve the tax report for a month.
// Serves the cached materialization when available, computing it otherwise.
//
// Endpoint: GET /api/tax/report?month=YYYY-MM
// Response: 200 OK with MonthlyReportResult
// Error: 400 Bad Request if the month parameter is missing or malformed
// Error: 500 Internal Server Error if computation fails
func (h *TaxHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	result, err := h.taxService.GetMonthlyReport(r.Context(), period)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// RefreshReport handles POST requests to recompute and cache a month's report,
// bypassing any cached entry.
//
// Endpoint: POST /api/tax/report/refresh?month=YYYY-MM
// Response: 200 OK with MonthlyReportResult
// Error: 400 Bad Request if the month parameter is missing or malformed
// Error: 500 Internal Server Error if computation fails
func (h *TaxHandler) RefreshReport(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	result, err := h.taxService.ComputeMonthlyReport(r.Context(), period)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// LossBalances handles GET requests to retrieve the persisted per-asset-class
// loss-carryforward snapshots.
//
// Endpoint: GET /api/tax/losses
// Response: 200 OK with array of LossBalance
// Error: 500 Internal Server Error if retrieval fails
func (h *TaxHandler) LossBalances(w http.ResponseWriter, _ *http.Request) {
	balances, err := h.taxService.GetLossBalances()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve loss balances", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, balances)
}
