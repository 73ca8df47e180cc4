package types

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var ErrEmptySeries = errors.New("price series has no points")

// PricePoint is one trading day's closing price. Date carries calendar-day
// granularity (UTC midnight).
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// PriceSeries is an ordered, deduplicated sequence of daily prices for one
// symbol. Days absent from the series are non-trading days; no gap filling
// happens anywhere downstream.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries normalizes raw points into a valid series: sorted by date
// ascending, one point per day (the last observation wins). Negative closes
// are rejected.
func NewPriceSeries(symbol string, points []PricePoint) (PriceSeries, error) {
	if len(points) == 0 {
		return PriceSeries{}, fmt.Errorf("%s: %w", symbol, ErrEmptySeries)
	}

	sorted := append([]PricePoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make([]PricePoint, 0, len(sorted))
	for _, p := range sorted {
		if p.Close.IsNegative() {
			return PriceSeries{}, fmt.Errorf("%s: negative close %s on %s", symbol, p.Close, p.Date.Format(DateLayout))
		}
		if n := len(out); n > 0 && sameDay(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}

	return PriceSeries{Symbol: symbol, Points: out}, nil
}

// Slice returns the sub-series with dates in [start, end] inclusive.
func (s PriceSeries) Slice(start, end time.Time) PriceSeries {
	out := PriceSeries{Symbol: s.Symbol}
	for _, p := range s.Points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

func (s PriceSeries) Len() int {
	return len(s.Points)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// Day builds a UTC-midnight calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
