package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/validation"
)

// OperationHandler handles HTTP requests for operation endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the operationService.
type OperationHandler struct {
	operationService *service.OperationService
}

// NewOperationHandler creates a new OperationHandler with the provided service dependency.
func NewOperationHandler(operationService *service.OperationService) *OperationHandler {
	return &OperationHandler{operationService: operationService}
}

// AllOperations handles GET requests to retrieve the full operation history
// in replay order.
//
// Endpoint: GET /api/operation
// Response: 200 OK with array of Operation
// Error: 500 Internal Server Error if retrieval fails
func (h *OperationHandler) AllOperations(w http.ResponseWriter, _ *http.Request) {
	operations, err := h.operationService.GetOperations()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOperations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, operations)
}

// GetOperation handles GET requests to retrieve a single operation by ID.
//
// Endpoint: GET /api/operation/{uuid}
// Response: 200 OK with Operation
// Error: 400 Bad Request if operation ID is invalid (validated by middleware)
// Error: 404 Not Found if operation not found
// Error: 500 Internal Server Error if retrieval fails
func (h *OperationHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "uuid")

	operation, err := h.operationService.GetOperation(operationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrOperationNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOperationNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOperations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, operation)
}

// CreateOperation handles POST requests to record a new operation.
// Recording an operation invalidates cached reports from its month onward.
//
// Endpoint: POST /api/operation
// Request Body: CreateOperationRequest (assetId, kind, date, quantity, unitPrice, ...)
// Response: 201 Created with Operation
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the referenced asset does not exist
// Error: 500 Internal Server Error if creation fails
func (h *OperationHandler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateOperationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateOperation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	operation, err := h.operationService.CreateOperation(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrAssetNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAssetNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create operation", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, operation)
}

// DeleteOperation handles DELETE requests to remove an operation.
// Deleting an operation invalidates cached reports from its month onward.
//
// Endpoint: DELETE /api/operation/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if operation ID is invalid (validated by middleware)
// Error: 404 Not Found if operation not found
// Error: 500 Internal Server Error if deletion fails
func (h *OperationHandler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "uuid")

	err := h.operationService.DeleteOperation(r.Context(), operationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrOperationNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOperationNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete operation", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
