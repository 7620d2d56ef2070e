package testutil

import (
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithSymbol("PETR4").
//	    WithType(model.AssetTypeFII).
//	    Build(t, db)
type AssetBuilder struct {
	ID        string
	Symbol    string
	Name      string
	AssetType model.AssetType
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:        MakeID(),
		Symbol:    MakeSymbol("TEST"),
		Name:      MakeAssetName("Test Asset"),
		AssetType: model.AssetTypeStock,
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithType sets the asset class.
func (b *AssetBuilder) WithType(assetType model.AssetType) *AssetBuilder {
	b.AssetType = assetType
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	query := `
		INSERT INTO asset (id, symbol, name, asset_type)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Name, b.AssetType.String())
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return model.Asset{
		ID:        b.ID,
		Symbol:    b.Symbol,
		Name:      b.Name,
		AssetType: b.AssetType,
	}
}

// Convenience functions

// CreateAsset creates an asset of the given class with default values.
//
// Example usage:
//
//	asset := testutil.CreateAsset(t, db, model.AssetTypeStock)
func CreateAsset(t *testing.T, db *sql.DB, assetType model.AssetType) model.Asset {
	t.Helper()
	return NewAsset().WithType(assetType).Build(t, db)
}

// createdAtSeq spaces the created_at column of built operations one second
// apart, so same-date operations replay in build order.
var createdAtSeq int64

func nextCreatedAt() time.Time {
	n := atomic.AddInt64(&createdAtSeq, 1)
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}

// OperationBuilder provides a fluent interface for creating test operations.
// Monetary columns are encrypted with the shared test cipher, matching what
// the repository expects on read.
//
// Example usage:
//
//	op := testutil.NewOperation(asset.ID).
//	    Sell().
//	    WithQuantity(40).
//	    WithUnitPrice("15").
//	    WithDate("2024-03-10").
//	    Build(t, db)
type OperationBuilder struct {
	ID             string
	AssetID        string
	Kind           model.OperationKind
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalValue     decimal.Decimal
	Fees           decimal.Decimal
	SourceWithheld decimal.Decimal
	Date           time.Time
}

// NewOperation creates an OperationBuilder with sensible defaults: a buy of
// 100 units at 10.00 each.
func NewOperation(assetID string) *OperationBuilder {
	return &OperationBuilder{
		ID:        MakeID(),
		AssetID:   assetID,
		Kind:      model.OperationBuy,
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.NewFromInt(10),
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// Buy marks the operation as a buy.
func (b *OperationBuilder) Buy() *OperationBuilder {
	b.Kind = model.OperationBuy
	return b
}

// Sell marks the operation as a sell.
func (b *OperationBuilder) Sell() *OperationBuilder {
	b.Kind = model.OperationSell
	return b
}

// WithKind sets the operation kind.
func (b *OperationBuilder) WithKind(kind model.OperationKind) *OperationBuilder {
	b.Kind = kind
	return b
}

// WithQuantity sets the quantity in whole units.
func (b *OperationBuilder) WithQuantity(quantity int64) *OperationBuilder {
	b.Quantity = decimal.NewFromInt(quantity)
	return b
}

// WithUnitPrice sets the unit price from its decimal string form.
func (b *OperationBuilder) WithUnitPrice(price string) *OperationBuilder {
	b.UnitPrice = decimal.RequireFromString(price)
	return b
}

// WithTotalValue sets an explicit total value, overriding quantity * price.
func (b *OperationBuilder) WithTotalValue(total string) *OperationBuilder {
	b.TotalValue = decimal.RequireFromString(total)
	return b
}

// WithFees sets the operation fees.
func (b *OperationBuilder) WithFees(fees string) *OperationBuilder {
	b.Fees = decimal.RequireFromString(fees)
	return b
}

// WithSourceWithheld sets the tax withheld at source.
func (b *OperationBuilder) WithSourceWithheld(withheld string) *OperationBuilder {
	b.SourceWithheld = decimal.RequireFromString(withheld)
	return b
}

// WithDate sets the operation date from a YYYY-MM-DD string.
func (b *OperationBuilder) WithDate(date string) *OperationBuilder {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("invalid test operation date: " + date)
	}
	b.Date = parsed
	return b
}

// Build encrypts the monetary fields, inserts the operation, and returns it.
func (b *OperationBuilder) Build(t *testing.T, db *sql.DB) model.Operation {
	t.Helper()

	cipher := TestCipher(t)

	totalValue := b.TotalValue
	if totalValue.IsZero() {
		totalValue = b.Quantity.Mul(b.UnitPrice)
	}

	plaintexts := []decimal.Decimal{b.Quantity, b.UnitPrice, totalValue, b.Fees, b.SourceWithheld}
	tokens := make([]string, len(plaintexts))
	for i, value := range plaintexts {
		token, err := cipher.EncryptDecimal(value)
		if err != nil {
			t.Fatalf("Failed to encrypt test operation field: %v", err)
		}
		tokens[i] = token
	}

	createdAt := nextCreatedAt()

	query := `
		INSERT INTO operation (id, asset_id, kind, quantity, unit_price, total_value, fees, source_withheld, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.AssetID, b.Kind.String(),
		tokens[0], tokens[1], tokens[2], tokens[3], tokens[4],
		b.Date.Format("2006-01-02"),
		createdAt.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		t.Fatalf("Failed to create test operation: %v", err)
	}

	return model.Operation{
		ID:             b.ID,
		AssetID:        b.AssetID,
		Kind:           b.Kind,
		Quantity:       b.Quantity,
		UnitPrice:      b.UnitPrice,
		TotalValue:     totalValue,
		Fees:           b.Fees,
		SourceWithheld: b.SourceWithheld,
		Date:           b.Date,
		CreatedAt:      createdAt,
	}
}

// CreateBuy creates a buy operation with the given quantity and unit price.
//
// Example usage:
//
//	op := testutil.CreateBuy(t, db, asset.ID, "2024-01-10", 100, "10")
func CreateBuy(t *testing.T, db *sql.DB, assetID, date string, quantity int64, price string) model.Operation {
	t.Helper()
	return NewOperation(assetID).Buy().WithDate(date).WithQuantity(quantity).WithUnitPrice(price).Build(t, db)
}

// CreateSell creates a sell operation with the given quantity and unit price.
func CreateSell(t *testing.T, db *sql.DB, assetID, date string, quantity int64, price string) model.Operation {
	t.Helper()
	return NewOperation(assetID).Sell().WithDate(date).WithQuantity(quantity).WithUnitPrice(price).Build(t, db)
}
