package strategy

import (
	"github.com/shopspring/decimal"

	"strategylab/types"
)

type Action string

const (
	ActionHold Action = "HOLD"
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Decision is a strategy's proposed action for one trading day. The
// simulator clamps the quantity to what the portfolio can actually honor;
// the strategy proposes, the simulator disposes.
type Decision struct {
	Action   Action
	Quantity decimal.Decimal
	Reason   string
}

func hold() Decision {
	return Decision{Action: ActionHold}
}

// Strategy decides one action per trading day, called in date order and
// never re-entrant for the same simulation. history is the series prefix up
// to and including today (today == history[len(history)-1]).
type Strategy interface {
	ID() string

	// Contribution returns external capital to inject into cash before the
	// day's decision. Zero for strategies without periodic funding; day 0 is
	// always funded by the initial capital, never by an injection.
	Contribution(dayIndex int) decimal.Decimal

	Decide(state types.PortfolioView, history []types.PricePoint, today types.PricePoint) Decision
}

// quantityScale bounds fractional share precision so that a full-cash buy
// never spends more than the cash on hand.
const quantityScale = 16

// MaxAffordable is the largest quantity purchasable with cash at price,
// truncated so quantity*price <= cash holds exactly in decimal arithmetic.
// Zero when the price is not positive.
func MaxAffordable(cash, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || !cash.IsPositive() {
		return decimal.Zero
	}

	q, _ := cash.QuoRem(price, quantityScale)

	return q
}
