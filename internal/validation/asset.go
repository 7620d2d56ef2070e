package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// ValidateCreateAsset validates an asset creation request.
func ValidateCreateAsset(req request.CreateAssetRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if strings.TrimSpace(req.AssetType) == "" {
		errors["assetType"] = "assetType is required"
	} else if !model.AssetType(req.AssetType).Valid() {
		errors["assetType"] = fmt.Sprintf("invalid assetType: %s", req.AssetType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
