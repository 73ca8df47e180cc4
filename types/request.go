package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// BacktestRequest describes one simulation to run. It is created by the
// caller and consumed once; dates are inclusive.
type BacktestRequest struct {
	Symbol         string            `json:"symbol"`
	StrategyID     string            `json:"strategyId"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	InitialCapital decimal.Decimal   `json:"initialCapital"`
	StrategyParams map[string]string `json:"strategyParams"`
}

// BacktestResult is the full outcome of one simulation. It is built once by
// the orchestrator and never mutated afterwards.
type BacktestResult struct {
	StrategyID  string        `json:"strategyId"`
	Symbol      string        `json:"symbol"`
	EquityCurve []EquityPoint `json:"equityCurve"`
	Trades      []Trade       `json:"trades"`
	Metrics     Metrics       `json:"metrics"`
}
