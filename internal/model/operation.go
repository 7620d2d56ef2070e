package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset represents a tradeable instrument from the database.
type Asset struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	AssetType AssetType `json:"assetType"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Operation represents a single buy/sell/deposit/withdraw/dividend record
// for an asset. Operations are immutable once recorded; the tax engine only
// reads them, ordered by date with insertion order breaking same-date ties.
//
// Monetary fields are stored encrypted at rest; by the time an Operation
// reaches the engine they have been decrypted into decimals.
type Operation struct {
	ID             string          `json:"id"`
	AssetID        string          `json:"assetId"`
	AssetType      AssetType       `json:"assetType"`
	Kind           OperationKind   `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Fees           decimal.Decimal `json:"fees"`
	SourceWithheld decimal.Decimal `json:"sourceWithheld"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// Position is the running state of one asset inside the position ledger:
// how many units are held and at what weighted-average unit cost.
// Owned exclusively by the ledger and recomputed from scratch on every replay.
type Position struct {
	AssetID     string          `json:"assetId"`
	AssetType   AssetType       `json:"assetType"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
}
