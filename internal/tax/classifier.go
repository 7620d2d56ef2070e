package tax

import (
	"time"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// dateKey collapses a timestamp to the engine's canonical calendar date.
const dateKey = "2006-01-02"

// TradeClassifier tags each realized gain as day-trade or swing-trade.
// A sale is a day-trade when the same asset has at least one buy-side
// operation (buy or deposit) on the exact same calendar date; classification
// is all-or-nothing per sale, never a proportional split between lots.
type TradeClassifier struct {
	acquisitionDates map[string]map[string]bool
}

// NewTradeClassifier indexes the acquisition dates of every asset in the
// operation history.
func NewTradeClassifier(ops []model.Operation) *TradeClassifier {
	dates := make(map[string]map[string]bool)
	for _, op := range ops {
		if !op.Kind.Acquisition() {
			continue
		}
		byAsset, ok := dates[op.AssetID]
		if !ok {
			byAsset = make(map[string]bool)
			dates[op.AssetID] = byAsset
		}
		byAsset[op.Date.Format(dateKey)] = true
	}
	return &TradeClassifier{acquisitionDates: dates}
}

// Classify returns the trade type for a sale of the given asset on the given date.
func (c *TradeClassifier) Classify(assetID string, saleDate time.Time) model.TradeType {
	if c.acquisitionDates[assetID][saleDate.Format(dateKey)] {
		return model.TradeTypeDay
	}
	return model.TradeTypeSwing
}
