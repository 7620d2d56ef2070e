package tax

import (
	"fmt"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// Diagnostic describes a problem encountered while computing a report.
// Diagnostics are returned alongside whatever partial report could still be
// produced; an asset or asset class whose computation failed is omitted from
// the report rather than zeroed.
type Diagnostic struct {
	AssetID     string          `json:"assetId,omitempty"`
	AssetType   model.AssetType `json:"assetType,omitempty"`
	OperationID string          `json:"operationId,omitempty"`
	Message     string          `json:"message"`
}

func operationDiagnostic(op model.Operation, err error) Diagnostic {
	return Diagnostic{
		AssetID:     op.AssetID,
		AssetType:   op.AssetType,
		OperationID: op.ID,
		Message:     fmt.Sprintf("operation skipped: %v", err),
	}
}

func assetDiagnostic(assetID string, assetType model.AssetType, err error) Diagnostic {
	return Diagnostic{
		AssetID:   assetID,
		AssetType: assetType,
		Message:   fmt.Sprintf("asset aborted: %v", err),
	}
}

func assetClassDiagnostic(assetType model.AssetType, err error) Diagnostic {
	return Diagnostic{
		AssetType: assetType,
		Message:   fmt.Sprintf("asset class omitted: %v", err),
	}
}
