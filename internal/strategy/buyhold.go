package strategy

import (
	"github.com/shopspring/decimal"

	"strategylab/types"
)

// buyAndHold invests all available cash at the first trading day's close and
// holds until the end of the range. Fractional shares keep leftover cash
// from skewing the comparison against other strategies.
type buyAndHold struct{}

func newBuyAndHold() *buyAndHold {
	return &buyAndHold{}
}

func (s *buyAndHold) ID() string {
	return IDBuyAndHold
}

func (s *buyAndHold) Contribution(int) decimal.Decimal {
	return decimal.Zero
}

func (s *buyAndHold) Decide(state types.PortfolioView, history []types.PricePoint, today types.PricePoint) Decision {
	if len(history) != 1 {
		return hold()
	}

	qty := MaxAffordable(state.Cash, today.Close)
	if !qty.IsPositive() {
		return hold()
	}

	return Decision{
		Action:   ActionBuy,
		Quantity: qty,
		Reason:   "initial buy with all capital",
	}
}
