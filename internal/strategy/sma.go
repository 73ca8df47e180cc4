package strategy

import (
	"github.com/shopspring/decimal"

	"strategylab/types"
)

// sma returns the simple moving average of the last window closes in
// points. ok is false when fewer than window points are available.
func sma(points []types.PricePoint, window int) (decimal.Decimal, bool) {
	if window <= 0 || len(points) < window {
		return decimal.Zero, false
	}

	sum := decimal.Zero
	for _, p := range points[len(points)-window:] {
		sum = sum.Add(p.Close)
	}

	return sum.Div(decimal.NewFromInt(int64(window))), true
}
