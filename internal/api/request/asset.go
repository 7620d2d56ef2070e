package request

// CreateAssetRequest is the payload for registering a new asset.
type CreateAssetRequest struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	AssetType string `json:"assetType"`
}
