package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetAssets retrieves all assets ordered by symbol.
func (r *AssetRepository) GetAssets() ([]model.Asset, error) {
	query := `
		SELECT id, symbol, name, asset_type, created_at
		FROM asset
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}

	for rows.Next() {
		asset, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves a single asset by its ID.
func (r *AssetRepository) GetAsset(assetID string) (model.Asset, error) {
	query := `
		SELECT id, symbol, name, asset_type, created_at
		FROM asset
		WHERE id = ?
	`

	row := r.db.QueryRow(query, assetID)
	asset, err := scanAsset(row.Scan)
	if err == sql.ErrNoRows {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, err
	}

	return asset, nil
}

// InsertAsset stores a new asset.
func (r *AssetRepository) InsertAsset(ctx context.Context, asset *model.Asset) error {
	query := `
		INSERT INTO asset (id, symbol, name, asset_type)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, asset.ID, asset.Symbol, asset.Name, asset.AssetType.String())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: symbol %s", apperrors.ErrDuplicateEntry, asset.Symbol)
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// scanAsset reads one asset row. The scan function abstracts over
// sql.Row.Scan and sql.Rows.Scan.
func scanAsset(scan func(...any) error) (model.Asset, error) {
	var asset model.Asset
	var assetTypeStr, createdAtStr string

	err := scan(&asset.ID, &asset.Symbol, &asset.Name, &assetTypeStr, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Asset{}, err
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to scan asset table results: %w", err)
	}

	asset.AssetType, err = model.ParseAssetType(assetTypeStr)
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to parse asset type: %w", err)
	}

	asset.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return asset, nil
}
