package model

import "fmt"

// AssetType is the closed set of asset classes the tax engine knows about.
// Each class maps to exactly one TaxRule entry.
type AssetType string

const (
	AssetTypeStock       AssetType = "stock"
	AssetTypeFII         AssetType = "fii"
	AssetTypeETF         AssetType = "etf"
	AssetTypeBDR         AssetType = "bdr"
	AssetTypeFixedIncome AssetType = "fixed_income"
	AssetTypeCrypto      AssetType = "crypto"
)

// AssetTypes lists every known asset class in a stable order.
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeFII,
	AssetTypeETF,
	AssetTypeBDR,
	AssetTypeFixedIncome,
	AssetTypeCrypto,
}

// Valid reports whether t is a known asset class.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeFII, AssetTypeETF, AssetTypeBDR, AssetTypeFixedIncome, AssetTypeCrypto:
		return true
	}
	return false
}

func (t AssetType) String() string { return string(t) }

// ParseAssetType converts a string into an AssetType, rejecting unknown values.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown asset type: %q", s)
	}
	return t, nil
}

// OperationKind is the closed set of operation types the ledger replays.
type OperationKind string

const (
	OperationBuy      OperationKind = "buy"
	OperationSell     OperationKind = "sell"
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationDividend OperationKind = "dividend"
)

// Valid reports whether k is a known operation kind.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationBuy, OperationSell, OperationDeposit, OperationWithdraw, OperationDividend:
		return true
	}
	return false
}

func (k OperationKind) String() string { return string(k) }

// Acquisition reports whether the operation adds to a position (buy-side).
// Deposits are treated as quantity-1 buys by the position ledger, so they
// count as acquisitions for day-trade classification too.
func (k OperationKind) Acquisition() bool {
	return k == OperationBuy || k == OperationDeposit
}

// Disposal reports whether the operation reduces a position (sell-side).
func (k OperationKind) Disposal() bool {
	return k == OperationSell || k == OperationWithdraw
}

// ParseOperationKind converts a string into an OperationKind, rejecting unknown values.
func ParseOperationKind(s string) (OperationKind, error) {
	k := OperationKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown operation kind: %q", s)
	}
	return k, nil
}

// TradeType distinguishes same-day round trips from multi-day sales.
type TradeType string

const (
	TradeTypeSwing TradeType = "swing_trade"
	TradeTypeDay   TradeType = "day_trade"
)

// Valid reports whether t is a known trade type.
func (t TradeType) Valid() bool {
	return t == TradeTypeSwing || t == TradeTypeDay
}

func (t TradeType) String() string { return string(t) }
