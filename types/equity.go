package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is the mark-to-market portfolio value at one trading day's
// close: cash plus shares held times that day's close.
type EquityPoint struct {
	Date           time.Time       `json:"date"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
}
