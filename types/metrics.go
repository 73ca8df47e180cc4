package types

import "github.com/shopspring/decimal"

// Metrics summarizes a finished backtest. Ratios that would divide by zero
// are reported as zero, never as NaN or infinity.
type Metrics struct {
	FinalValue           decimal.Decimal `json:"finalValue"`
	TotalContributions   decimal.Decimal `json:"totalContributions"`
	CAGR                 decimal.Decimal `json:"cagr"`
	MaxDrawdown          decimal.Decimal `json:"maxDrawdown"`
	AnnualizedVolatility decimal.Decimal `json:"annualizedVolatility"`
	SharpeRatio          decimal.Decimal `json:"sharpeRatio"`
	NumberOfTrades       int             `json:"numberOfTrades"`
}
