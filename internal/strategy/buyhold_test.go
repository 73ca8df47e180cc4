package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategylab/types"
)

func TestBuyAndHoldBuysEverythingOnDayZero(t *testing.T) {
	s := newBuyAndHold()
	points := series(50, 55, 60)

	state := types.PortfolioView{Cash: decimal.NewFromInt(1000)}
	dec := s.Decide(state, points[:1], points[0])

	require.Equal(t, ActionBuy, dec.Action)
	assert.True(t, dec.Quantity.Equal(decimal.NewFromInt(20)), dec.Quantity.String())
	assert.NotEmpty(t, dec.Reason)
}

func TestBuyAndHoldHoldsAfterDayZero(t *testing.T) {
	s := newBuyAndHold()
	points := series(50, 55, 60)

	state := types.PortfolioView{Cash: decimal.Zero, SharesHeld: decimal.NewFromInt(20)}
	for i := 1; i < len(points); i++ {
		dec := s.Decide(state, points[:i+1], points[i])
		assert.Equal(t, ActionHold, dec.Action, "day %d", i)
	}
}

func TestBuyAndHoldZeroPrice(t *testing.T) {
	s := newBuyAndHold()
	points := series(0, 10)

	state := types.PortfolioView{Cash: decimal.NewFromInt(1000)}
	dec := s.Decide(state, points[:1], points[0])
	assert.Equal(t, ActionHold, dec.Action)
}
