package request

import "github.com/shopspring/decimal"

// CreateOperationRequest is the payload for recording a new operation.
// TotalValue may be omitted for unitized operations; it defaults to
// quantity times unit price.
type CreateOperationRequest struct {
	AssetID        string          `json:"assetId"`
	Kind           string          `json:"kind"`
	Date           string          `json:"date"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Fees           decimal.Decimal `json:"fees"`
	SourceWithheld decimal.Decimal `json:"sourceWithheld"`
}
