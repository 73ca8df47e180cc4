package types

import "github.com/shopspring/decimal"

// PortfolioView is the read-only snapshot handed to a strategy when it
// decides the day's action: state as of the end of the previous day, plus
// any capital injected this morning.
type PortfolioView struct {
	Cash       decimal.Decimal
	SharesHeld decimal.Decimal
}

// Invested reports whether a position is currently held.
func (v PortfolioView) Invested() bool {
	return v.SharesHeld.IsPositive()
}
