package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// Trade is one executed full-quantity market order. Entries are append-only
// and immutable once recorded.
type Trade struct {
	Date     time.Time       `json:"date"`
	Action   TradeAction     `json:"action"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Reason   string          `json:"reason"`
}
