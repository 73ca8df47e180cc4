package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategylab/pkg/errors"
	"strategylab/types"
)

// maCrossover trades the sign change of (short SMA - long SMA): buy all
// cash on a golden cross when flat, sell the whole position on a death
// cross. It needs longWindow trading days of history before it can act, and
// the first day with both SMAs defined only seeds the comparison. A
// transition that ends at equality is not a cross.
type maCrossover struct {
	shortWindow int
	longWindow  int
}

func newMACrossover(params Params) (*maCrossover, error) {
	short := params.Int("shortWindow")
	if short < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"parameter shortWindow must be a positive integer, got %d", short)
	}

	long := params.Int("longWindow")
	if long < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"parameter longWindow must be a positive integer, got %d", long)
	}

	if short >= long {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"parameter shortWindow (%d) must be less than longWindow (%d)", short, long)
	}

	return &maCrossover{shortWindow: short, longWindow: long}, nil
}

func (s *maCrossover) ID() string {
	return IDMACrossover
}

func (s *maCrossover) Contribution(int) decimal.Decimal {
	return decimal.Zero
}

func (s *maCrossover) Decide(state types.PortfolioView, history []types.PricePoint, today types.PricePoint) Decision {
	shortSMA, ok := sma(history, s.shortWindow)
	if !ok {
		return hold()
	}

	longSMA, ok := sma(history, s.longWindow)
	if !ok {
		return hold()
	}

	prev := history[:len(history)-1]

	prevShort, ok := sma(prev, s.shortWindow)
	if !ok {
		return hold()
	}

	prevLong, ok := sma(prev, s.longWindow)
	if !ok {
		// Today is the first day with both SMAs defined; it only seeds
		// the prior-day comparison.
		return hold()
	}

	diff := shortSMA.Cmp(longSMA)
	prevDiff := prevShort.Cmp(prevLong)

	switch {
	case prevDiff <= 0 && diff > 0 && !state.Invested():
		qty := MaxAffordable(state.Cash, today.Close)
		if !qty.IsPositive() {
			return hold()
		}

		return Decision{
			Action:   ActionBuy,
			Quantity: qty,
			Reason:   fmt.Sprintf("SMA(%d) crossed above SMA(%d)", s.shortWindow, s.longWindow),
		}
	case prevDiff >= 0 && diff < 0 && state.Invested():
		return Decision{
			Action:   ActionSell,
			Quantity: state.SharesHeld,
			Reason:   fmt.Sprintf("SMA(%d) crossed below SMA(%d)", s.shortWindow, s.longWindow),
		}
	}

	return hold()
}
