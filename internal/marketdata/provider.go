// Package marketdata supplies daily closing price series from external
// sources and caches them across runs.
package marketdata

import (
	"context"
	"time"

	"strategylab/types"
)

// Provider hands out daily close series and instrument metadata for a
// symbol. Implementations must be safe for concurrent use.
type Provider interface {
	FetchDailySeries(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error)

	// ValidateSymbol resolves symbol to a tradable instrument, or returns a
	// data-unavailable error when the source does not know it.
	ValidateSymbol(ctx context.Context, symbol string) (types.Instrument, error)
}
