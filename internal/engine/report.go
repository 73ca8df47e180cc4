package engine

import (
	"fmt"
	"io"

	"strategylab/types"
)

// WriteReport prints a human-readable summary of one backtest result.
func WriteReport(w io.Writer, res *types.BacktestResult) {
	curve := res.EquityCurve

	fmt.Fprintln(w, "===== Backtest Report =====")
	fmt.Fprintf(w, "Strategy:              %s\n", res.StrategyID)
	fmt.Fprintf(w, "Symbol:                %s\n", res.Symbol)

	if len(curve) > 0 {
		fmt.Fprintf(w, "First Trading Day:     %s\n", curve[0].Date.Format(types.DateLayout))
		fmt.Fprintf(w, "Last Trading Day:      %s\n", curve[len(curve)-1].Date.Format(types.DateLayout))
		fmt.Fprintf(w, "Trading Days:          %d\n", len(curve))
	}

	m := res.Metrics

	fmt.Fprintln(w, "\n-- Performance --")
	fmt.Fprintf(w, "Final Value:           %s\n", m.FinalValue.StringFixed(2))
	fmt.Fprintf(w, "Total Contributions:   %s\n", m.TotalContributions.StringFixed(2))
	fmt.Fprintf(w, "CAGR:                  %s\n", m.CAGR.Round(6))

	fmt.Fprintln(w, "\n-- Risk --")
	fmt.Fprintf(w, "Max Drawdown:          %s\n", m.MaxDrawdown.Round(6))
	fmt.Fprintf(w, "Annualized Volatility: %s\n", m.AnnualizedVolatility.Round(6))
	fmt.Fprintf(w, "Sharpe Ratio:          %s\n", m.SharpeRatio.Round(6))

	fmt.Fprintln(w, "\n-- Activity --")
	fmt.Fprintf(w, "Total Trades:          %d\n", m.NumberOfTrades)

	fmt.Fprintln(w, "===========================")
}
