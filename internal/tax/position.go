package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// PositionLedger tracks the weighted-average cost basis of a single asset by
// replaying its operations in chronological order. Its state is fully
// determined by the replay; it is never mutated out of order.
type PositionLedger struct {
	assetID   string
	assetType model.AssetType

	quantity    decimal.Decimal
	averageCost decimal.Decimal
	fees        decimal.Decimal
}

// NewPositionLedger creates an empty ledger for one asset.
func NewPositionLedger(assetID string, assetType model.AssetType) *PositionLedger {
	return &PositionLedger{
		assetID:   assetID,
		assetType: assetType,
	}
}

// Position returns the current position snapshot. AverageCost is zero when
// the position is empty.
func (l *PositionLedger) Position() model.Position {
	return model.Position{
		AssetID:     l.assetID,
		AssetType:   l.assetType,
		Quantity:    l.quantity,
		AverageCost: l.averageCost,
	}
}

// Fees returns the total fees recorded so far. Fees are informational only
// and never enter the cost-basis arithmetic.
func (l *PositionLedger) Fees() decimal.Decimal {
	return l.fees
}

// Apply replays a single operation. Sell and withdraw operations emit a
// realized-gain record (trade type left unset for the classifier); every
// other kind returns nil. Oversells fail with ErrInsufficientQuantity and
// leave the ledger state unchanged.
func (l *PositionLedger) Apply(op model.Operation) (*model.RealizedGain, error) {
	switch op.Kind {
	case model.OperationBuy:
		l.recordBuy(op.Quantity, op.UnitPrice, op.Fees)
		return nil, nil
	case model.OperationSell:
		return l.recordSell(op, op.Quantity, op.UnitPrice, op.Fees)
	case model.OperationDeposit:
		// Non-unitized positions: a deposit is a quantity-1 buy priced at the
		// deposited amount.
		l.recordBuy(decimal.NewFromInt(1), op.TotalValue, op.Fees)
		return nil, nil
	case model.OperationWithdraw:
		return l.recordSell(op, decimal.NewFromInt(1), op.TotalValue, op.Fees)
	case model.OperationDividend:
		// Dividends never alter the position; they are reported separately as
		// non-taxable-basis income.
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidOperation, op.Kind)
	}
}

func (l *PositionLedger) recordBuy(qty, price, fees decimal.Decimal) {
	newQty := l.quantity.Add(qty)
	totalCost := l.quantity.Mul(l.averageCost).Add(qty.Mul(price))
	l.averageCost = totalCost.Div(newQty)
	l.quantity = newQty
	l.fees = l.fees.Add(fees)
}

func (l *PositionLedger) recordSell(op model.Operation, qty, price, fees decimal.Decimal) (*model.RealizedGain, error) {
	if qty.GreaterThan(l.quantity) {
		return nil, fmt.Errorf("%w: asset %s holds %s, tried to sell %s",
			apperrors.ErrInsufficientQuantity, l.assetID, l.quantity, qty)
	}

	gain := &model.RealizedGain{
		OperationID:       op.ID,
		AssetID:           l.assetID,
		AssetType:         l.assetType,
		Date:              op.Date,
		QuantitySold:      qty,
		AverageCostAtSale: l.averageCost,
		SaleValue:         qty.Mul(price),
		Gain:              qty.Mul(price.Sub(l.averageCost)),
	}

	// Cost basis shrinks proportionally: average cost is unchanged for the
	// remaining lot, and undefined (zero) once the position is closed.
	l.quantity = l.quantity.Sub(qty)
	if l.quantity.IsZero() {
		l.averageCost = decimal.Zero
	}
	l.fees = l.fees.Add(fees)

	return gain, nil
}

// ValidateOperation rejects malformed operation records before replay.
// Callers skip invalid operations with a diagnostic instead of failing the
// whole monthly computation.
func ValidateOperation(op model.Operation) error {
	if !op.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidOperation, op.Kind)
	}
	if !op.AssetType.Valid() {
		return fmt.Errorf("%w: unknown asset type %q", apperrors.ErrInvalidOperation, op.AssetType)
	}
	if op.Date.IsZero() {
		return fmt.Errorf("%w: missing date", apperrors.ErrInvalidOperation)
	}
	switch op.Kind {
	case model.OperationBuy, model.OperationSell:
		if !op.Quantity.IsPositive() {
			return fmt.Errorf("%w: quantity must be positive", apperrors.ErrInvalidOperation)
		}
		if op.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: unit price cannot be negative", apperrors.ErrInvalidOperation)
		}
	case model.OperationDeposit, model.OperationWithdraw, model.OperationDividend:
		if !op.TotalValue.IsPositive() {
			return fmt.Errorf("%w: total value must be positive", apperrors.ErrInvalidOperation)
		}
	}
	if op.Fees.IsNegative() {
		return fmt.Errorf("%w: fees cannot be negative", apperrors.ErrInvalidOperation)
	}
	if op.SourceWithheld.IsNegative() {
		return fmt.Errorf("%w: source withholding cannot be negative", apperrors.ErrInvalidOperation)
	}
	return nil
}
