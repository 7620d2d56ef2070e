package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/validation"
)

func validBuyRequest() request.CreateOperationRequest {
	return request.CreateOperationRequest{
		AssetID:   "550e8400-e29b-41d4-a716-446655440000",
		Kind:      "buy",
		Date:      "2024-03-10",
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.NewFromInt(10),
	}
}

// TestValidateCreateOperation tests request validation per operation kind.
func TestValidateCreateOperation(t *testing.T) {
	t.Run("accepts a valid buy", func(t *testing.T) {
		if err := validation.ValidateCreateOperation(validBuyRequest()); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	t.Run("accepts a valid dividend with total value only", func(t *testing.T) {
		req := request.CreateOperationRequest{
			AssetID:    "550e8400-e29b-41d4-a716-446655440000",
			Kind:       "dividend",
			Date:       "2024-03-10",
			TotalValue: decimal.NewFromInt(50),
		}
		if err := validation.ValidateCreateOperation(req); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.CreateOperationRequest)
		field  string
	}{
		{"invalid asset id", func(r *request.CreateOperationRequest) { r.AssetID = "not-a-uuid" }, "assetId"},
		{"missing date", func(r *request.CreateOperationRequest) { r.Date = "" }, "date"},
		{"malformed date", func(r *request.CreateOperationRequest) { r.Date = "10/03/2024" }, "date"},
		{"missing kind", func(r *request.CreateOperationRequest) { r.Kind = "" }, "kind"},
		{"unknown kind", func(r *request.CreateOperationRequest) { r.Kind = "transfer" }, "kind"},
		{"zero quantity on buy", func(r *request.CreateOperationRequest) { r.Quantity = decimal.Zero }, "quantity"},
		{"zero unit price on buy", func(r *request.CreateOperationRequest) { r.UnitPrice = decimal.Zero }, "unitPrice"},
		{"negative fees", func(r *request.CreateOperationRequest) { r.Fees = decimal.NewFromInt(-1) }, "fees"},
		{"negative withholding", func(r *request.CreateOperationRequest) { r.SourceWithheld = decimal.NewFromInt(-1) }, "sourceWithheld"},
		{"zero total value on deposit", func(r *request.CreateOperationRequest) {
			r.Kind = "deposit"
			r.TotalValue = decimal.Zero
		}, "totalValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBuyRequest()
			tt.mutate(&req)

			err := validation.ValidateCreateOperation(req)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			var vErr *validation.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, ok := vErr.Fields[tt.field]; !ok {
				t.Errorf("Expected error on field %q, got %v", tt.field, vErr.Fields)
			}
		})
	}
}

// TestValidateCreateAsset tests asset registration validation.
func TestValidateCreateAsset(t *testing.T) {
	t.Run("accepts a valid asset", func(t *testing.T) {
		req := request.CreateAssetRequest{Symbol: "PETR4", Name: "Petrobras PN", AssetType: "stock"}
		if err := validation.ValidateCreateAsset(req); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	t.Run("rejects unknown asset type", func(t *testing.T) {
		req := request.CreateAssetRequest{Symbol: "X", Name: "X", AssetType: "bond"}

		err := validation.ValidateCreateAsset(req)
		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %v", err)
		}
		if _, ok := vErr.Fields["assetType"]; !ok {
			t.Errorf("Expected error on assetType, got %v", vErr.Fields)
		}
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		err := validation.ValidateCreateAsset(request.CreateAssetRequest{})
		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %v", err)
		}
		for _, field := range []string{"symbol", "name", "assetType"} {
			if _, ok := vErr.Fields[field]; !ok {
				t.Errorf("Expected error on %s, got %v", field, vErr.Fields)
			}
		}
	})
}
