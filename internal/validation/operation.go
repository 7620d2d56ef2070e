package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// ValidateCreateOperation validates an operation creation request.
//
// Required fields:
//   - assetId: Must be a valid UUID
//   - date: Must be in YYYY-MM-DD format
//   - kind: Must be one of: buy, sell, deposit, withdraw, dividend
//   - quantity/unitPrice: Must be positive for buy and sell
//   - totalValue: Must be positive for deposit, withdraw and dividend
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateOperation(req request.CreateOperationRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.AssetID); err != nil {
		errors["assetId"] = err.Error()
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	kind := model.OperationKind(req.Kind)
	if strings.TrimSpace(req.Kind) == "" {
		errors["kind"] = "kind is required"
	} else if !kind.Valid() {
		errors["kind"] = fmt.Sprintf("invalid kind: %s", req.Kind)
	}

	switch kind {
	case model.OperationBuy, model.OperationSell:
		if !req.Quantity.IsPositive() {
			errors["quantity"] = "quantity must be positive"
		}
		if !req.UnitPrice.IsPositive() {
			errors["unitPrice"] = "unitPrice must be positive"
		}
	case model.OperationDeposit, model.OperationWithdraw, model.OperationDividend:
		if !req.TotalValue.IsPositive() {
			errors["totalValue"] = "totalValue must be positive"
		}
	}

	if req.Fees.IsNegative() {
		errors["fees"] = "fees cannot be negative"
	}

	if req.SourceWithheld.IsNegative() {
		errors["sourceWithheld"] = "sourceWithheld cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
