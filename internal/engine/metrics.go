package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"strategylab/types"
)

// Trading days per year assumed when annualizing volatility and returns.
const tradingDaysPerYear = 252

// ComputeMetrics derives summary risk/return metrics from a finished
// simulation. It is pure and stateless.
//
// Currency amounts stay in decimal; the statistical aggregates (CAGR,
// volatility, Sharpe) are computed in float64 and converted back, since
// currency-level precision is not required there. Every division that could
// blow up substitutes the documented default of zero instead.
func ComputeMetrics(curve []types.EquityPoint, trades []types.Trade, totalContributions, initialCapital decimal.Decimal) types.Metrics {
	m := types.Metrics{
		FinalValue:           initialCapital,
		TotalContributions:   totalContributions,
		CAGR:                 decimal.Zero,
		MaxDrawdown:          decimal.Zero,
		AnnualizedVolatility: decimal.Zero,
		SharpeRatio:          decimal.Zero,
		NumberOfTrades:       len(trades),
	}

	if len(curve) == 0 {
		return m
	}

	m.FinalValue = curve[len(curve)-1].PortfolioValue
	m.CAGR = calcCAGR(curve, totalContributions)
	m.MaxDrawdown = calcMaxDrawdown(curve)

	vol, sharpe := calcVolatilityAndSharpe(curve)
	m.AnnualizedVolatility = vol
	m.SharpeRatio = sharpe

	return m
}

// calcCAGR computes (finalValue/totalContributions)^(365.25/elapsedDays)-1
// over the calendar days spanned by the curve.
func calcCAGR(curve []types.EquityPoint, totalContributions decimal.Decimal) decimal.Decimal {
	if !totalContributions.IsPositive() {
		return decimal.Zero
	}

	first := curve[0]
	last := curve[len(curve)-1]

	elapsedDays := last.Date.Sub(first.Date).Hours() / 24.0
	if elapsedDays <= 0 {
		return decimal.Zero
	}

	ratio := last.PortfolioValue.Div(totalContributions).InexactFloat64()
	if ratio <= 0 {
		return decimal.Zero
	}

	cagr := math.Pow(ratio, 365.25/elapsedDays) - 1.0

	return decimal.NewFromFloat(cagr)
}

// calcMaxDrawdown returns the deepest (value-peak)/peak over the curve as a
// negative fraction, or zero when the curve never dips below its running
// peak.
func calcMaxDrawdown(curve []types.EquityPoint) decimal.Decimal {
	peak := curve[0].PortfolioValue
	maxDD := decimal.Zero

	for _, point := range curve {
		value := point.PortfolioValue
		if value.GreaterThan(peak) {
			peak = value
		}

		if !peak.IsPositive() {
			continue
		}

		dd := value.Sub(peak).Div(peak)
		if dd.LessThan(maxDD) {
			maxDD = dd
		}
	}

	return maxDD
}

// calcVolatilityAndSharpe computes the population standard deviation of
// day-over-day simple returns annualized by sqrt(252), and the Sharpe ratio
// (mean daily return * 252) / volatility with a risk-free rate of zero.
func calcVolatilityAndSharpe(curve []types.EquityPoint) (decimal.Decimal, decimal.Decimal) {
	var returns []float64

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].PortfolioValue.InexactFloat64()
		curr := curve[i].PortfolioValue.InexactFloat64()

		if prev > 0 {
			returns = append(returns, (curr-prev)/prev)
		}
	}

	if len(returns) < 2 {
		return decimal.Zero, decimal.Zero
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	mean := sum / float64(len(returns))

	var varianceSum float64

	for _, r := range returns {
		diff := r - mean
		varianceSum += diff * diff
	}

	stddev := math.Sqrt(varianceSum / float64(len(returns)))
	annualized := stddev * math.Sqrt(tradingDaysPerYear)

	if annualized == 0 {
		return decimal.Zero, decimal.Zero
	}

	sharpe := (mean * tradingDaysPerYear) / annualized

	return decimal.NewFromFloat(annualized), decimal.NewFromFloat(sharpe)
}
