package tax

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// LossCarryforward tracks the unconsumed historical losses of each asset
// class. Balances are never positive: they grow more negative as losses
// accrue and move toward zero as taxable gains consume them.
//
// Months must be applied in strictly increasing chronological order per asset
// class; the engine guarantees this by processing the history month by month.
type LossCarryforward struct {
	balances map[model.AssetType]decimal.Decimal
}

// NewLossCarryforward creates an empty carryforward ledger. Balances are
// created lazily at zero.
func NewLossCarryforward() *LossCarryforward {
	return &LossCarryforward{balances: make(map[model.AssetType]decimal.Decimal)}
}

// Balance returns the current (zero or negative) balance for an asset class.
func (l *LossCarryforward) Balance(t model.AssetType) decimal.Decimal {
	return l.balances[t]
}

// Accrue adds a month's negative net result to the class balance.
// Positive amounts are ignored; gains interact through Consume.
func (l *LossCarryforward) Accrue(t model.AssetType, net decimal.Decimal) {
	if net.IsNegative() {
		l.balances[t] = l.balances[t].Add(net)
	}
}

// Consume offsets a positive taxable net result against the accumulated
// balance. It returns the amount used: min(|balance|, net). The balance moves
// toward zero by the same amount.
func (l *LossCarryforward) Consume(t model.AssetType, net decimal.Decimal) decimal.Decimal {
	if !net.IsPositive() {
		return decimal.Zero
	}
	available := l.balances[t].Neg()
	if !available.IsPositive() {
		return decimal.Zero
	}
	used := decimal.Min(available, net)
	l.balances[t] = l.balances[t].Add(used)
	return used
}

// Snapshot returns a copy of all balances, including untouched classes at zero.
func (l *LossCarryforward) Snapshot() map[model.AssetType]decimal.Decimal {
	snapshot := make(map[model.AssetType]decimal.Decimal, len(l.balances))
	for t, balance := range l.balances {
		snapshot[t] = balance
	}
	return snapshot
}
