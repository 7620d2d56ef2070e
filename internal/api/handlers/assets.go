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

// AssetHandler handles HTTP requests for asset endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the assetService.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler with the provided service dependency.
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// Assets handles GET requests to retrieve all assets.
//
// Endpoint: GET /api/asset
// Response: 200 OK with array of Asset
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) Assets(w http.ResponseWriter, _ *http.Request) {
	assets, err := h.assetService.GetAssets()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAssets.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, assets)
}

// GetAsset handles GET requests to retrieve a single asset by ID.
//
// Endpoint: GET /api/asset/{uuid}
// Response: 200 OK with Asset
// Error: 400 Bad Request if asset ID is invalid (validated by middleware)
// Error: 404 Not Found if asset not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "uuid")

	asset, err := h.assetService.GetAsset(assetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAssetNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAssetNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAssets.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// CreateAsset handles POST requests to register a new asset.
//
// Endpoint: POST /api/asset
// Request Body: CreateAssetRequest (symbol, name, assetType)
// Response: 201 Created with Asset
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if an asset with the same symbol already exists
// Error: 500 Internal Server Error if creation fails
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAsset(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	asset, err := h.assetService.CreateAsset(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create asset", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, asset)
}
