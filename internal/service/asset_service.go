package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/repository"
)

// AssetService handles asset-related business logic operations.
type AssetService struct {
	assetRepo *repository.AssetRepository
}

// NewAssetService creates a new AssetService with the provided repository dependencies.
func NewAssetService(assetRepo *repository.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

// GetAssets retrieves all assets.
func (s *AssetService) GetAssets() ([]model.Asset, error) {
	return s.assetRepo.GetAssets()
}

// GetAsset retrieves a single asset by its ID.
func (s *AssetService) GetAsset(assetID string) (model.Asset, error) {
	return s.assetRepo.GetAsset(assetID)
}

// CreateAsset validates and stores a new asset.
func (s *AssetService) CreateAsset(ctx context.Context, req request.CreateAssetRequest) (*model.Asset, error) {
	assetType, err := model.ParseAssetType(req.AssetType)
	if err != nil {
		return nil, err
	}

	asset := &model.Asset{
		ID:        uuid.New().String(),
		Symbol:    req.Symbol,
		Name:      req.Name,
		AssetType: assetType,
		CreatedAt: time.Now(),
	}

	if err := s.assetRepo.InsertAsset(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return asset, nil
}
