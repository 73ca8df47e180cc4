package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"strategylab/internal/logger"
	"strategylab/internal/strategy"
	"strategylab/types"
)

func testSeries(t *testing.T, closes ...float64) types.PriceSeries {
	t.Helper()

	start := types.Day(2024, time.January, 2)
	points := make([]types.PricePoint, len(closes))

	for i, c := range closes {
		points[i] = types.PricePoint{Date: start.AddDate(0, 0, i), Close: decimal.NewFromFloat(c)}
	}

	series, err := types.NewPriceSeries("TEST", points)
	if err != nil {
		t.Fatalf("NewPriceSeries() error = %v", err)
	}

	return series
}

func newStrategy(t *testing.T, id string, params map[string]string) strategy.Strategy {
	t.Helper()

	s, err := strategy.NewCatalog().New(id, params)
	if err != nil {
		t.Fatalf("catalog.New(%s) error = %v", id, err)
	}

	return s
}

func TestSimulatorBuyAndHoldFlatSeries(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := testSeries(t, 25, 25, 25, 25)
	capital := decimal.NewFromInt(1000)

	out := sim.Run(newStrategy(t, strategy.IDBuyAndHold, nil), series, capital)

	if len(out.Trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(out.Trades))
	}

	tr := out.Trades[0]
	if tr.Action != types.TradeActionBuy {
		t.Errorf("action = %s, want BUY", tr.Action)
	}

	if !tr.Quantity.Equal(decimal.NewFromInt(40)) {
		t.Errorf("quantity = %s, want 40", tr.Quantity)
	}

	if !tr.Date.Equal(series.Points[0].Date) {
		t.Errorf("trade date = %s, want day 0", tr.Date)
	}

	// Flat price series: the equity curve stays at the initial capital.
	for i, p := range out.EquityCurve {
		if !p.PortfolioValue.Equal(capital) {
			t.Errorf("day %d value = %s, want %s", i, p.PortfolioValue, capital)
		}
	}
}

func TestSimulatorEquityCurveOnePointPerTradingDay(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := testSeries(t, 10, 11, 12, 13, 14)

	out := sim.Run(newStrategy(t, strategy.IDBuyAndHold, nil), series, decimal.NewFromInt(100))

	if len(out.EquityCurve) != series.Len() {
		t.Fatalf("curve length = %d, want %d", len(out.EquityCurve), series.Len())
	}

	for i, p := range out.EquityCurve {
		if !p.Date.Equal(series.Points[i].Date) {
			t.Errorf("curve[%d].Date = %s, want %s", i, p.Date, series.Points[i].Date)
		}

		if i > 0 && !out.EquityCurve[i-1].Date.Before(p.Date) {
			t.Errorf("curve dates not strictly increasing at %d", i)
		}
	}
}

func TestSimulatorSolvencyInvariants(t *testing.T) {
	sim := NewSimulator(logger.NewNop())

	tests := []struct {
		name   string
		id     string
		params map[string]string
		closes []float64
	}{
		{"buy and hold", strategy.IDBuyAndHold, nil, []float64{10, 8, 12, 7, 15}},
		{"dca weekly", strategy.IDDCA, map[string]string{"contributionAmount": "100", "frequencyDays": "2"}, []float64{10, 8, 12, 7, 15, 20, 3}},
		{"crossover", strategy.IDMACrossover, map[string]string{"shortWindow": "2", "longWindow": "3"}, []float64{10, 10, 10, 20, 20, 5, 5, 20, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := testSeries(t, tt.closes...)
			out := sim.Run(newStrategy(t, tt.id, tt.params), series, decimal.NewFromInt(1000))

			// Replay the ledger: cash and shares must never go negative.
			cash := out.TotalContributions.Sub(tradeCashFlow(out.Trades))
			if cash.IsNegative() {
				t.Errorf("final cash = %s, want >= 0", cash)
			}

			shares := decimal.Zero
			for _, tr := range out.Trades {
				if tr.Action == types.TradeActionBuy {
					shares = shares.Add(tr.Quantity)
				} else {
					shares = shares.Sub(tr.Quantity)
				}

				if shares.IsNegative() {
					t.Fatalf("shares went negative after %s on %s", tr.Action, tr.Date)
				}

				if !tr.Quantity.IsPositive() {
					t.Errorf("recorded trade with non-positive quantity %s", tr.Quantity)
				}
			}
		})
	}
}

// tradeCashFlow is sum(BUY qty*price) - sum(SELL qty*price).
func tradeCashFlow(trades []types.Trade) decimal.Decimal {
	flow := decimal.Zero

	for _, tr := range trades {
		value := tr.Quantity.Mul(tr.Price)
		if tr.Action == types.TradeActionBuy {
			flow = flow.Add(value)
		} else {
			flow = flow.Sub(value)
		}
	}

	return flow
}

func TestSimulatorDCAContributionAccounting(t *testing.T) {
	sim := NewSimulator(logger.NewNop())

	closes := make([]float64, 252)
	for i := range closes {
		closes[i] = 50
	}

	series := testSeries(t, closes...)
	capital := decimal.NewFromInt(10000)

	out := sim.Run(newStrategy(t, strategy.IDDCA, map[string]string{
		"contributionAmount": "500",
		"frequencyDays":      "21",
	}), series, capital)

	// Buys on day 0, 21, 42, ..., 231: twelve in total. The day-0 tranche
	// is the initial capital, so eleven external contributions follow.
	if len(out.Trades) != 12 {
		t.Fatalf("trades = %d, want 12", len(out.Trades))
	}

	wantContributions := capital.Add(decimal.NewFromInt(11 * 500))
	if !out.TotalContributions.Equal(wantContributions) {
		t.Errorf("totalContributions = %s, want %s", out.TotalContributions, wantContributions)
	}

	for i, tr := range out.Trades {
		wantDate := series.Points[i*21].Date
		if !tr.Date.Equal(wantDate) {
			t.Errorf("trade %d date = %s, want %s", i, tr.Date, wantDate)
		}
	}
}

// greedyStrategy proposes deliberately impossible quantities to exercise the
// simulator's clamp floor.
type greedyStrategy struct{}

func (greedyStrategy) ID() string { return "greedy" }

func (greedyStrategy) Contribution(int) decimal.Decimal { return decimal.Zero }

func (greedyStrategy) Decide(state types.PortfolioView, history []types.PricePoint, today types.PricePoint) strategy.Decision {
	if len(history) == 1 {
		return strategy.Decision{Action: strategy.ActionBuy, Quantity: decimal.NewFromInt(1000000), Reason: "buy everything"}
	}

	return strategy.Decision{Action: strategy.ActionSell, Quantity: decimal.NewFromInt(1000000), Reason: "sell everything"}
}

func TestSimulatorClampsOverdraftAndOversell(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := testSeries(t, 10, 10, 10)

	out := sim.Run(greedyStrategy{}, series, decimal.NewFromInt(100))

	if len(out.Trades) != 2 {
		t.Fatalf("trades = %d, want 2 (clamped buy, clamped sell, then nothing left)", len(out.Trades))
	}

	buy := out.Trades[0]
	if !buy.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("buy quantity = %s, want 10 (clamped)", buy.Quantity)
	}

	if buy.Reason != "buy everything (clamped to available cash)" {
		t.Errorf("buy reason = %q, clamp not visible", buy.Reason)
	}

	sell := out.Trades[1]
	if !sell.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("sell quantity = %s, want 10 (clamped)", sell.Quantity)
	}

	if sell.Reason != "sell everything (clamped to shares held)" {
		t.Errorf("sell reason = %q, clamp not visible", sell.Reason)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := testSeries(t, 10, 12, 9, 14, 11, 16, 8)
	params := map[string]string{"shortWindow": "2", "longWindow": "3"}

	first := sim.Run(newStrategy(t, strategy.IDMACrossover, params), series, decimal.NewFromInt(5000))
	second := sim.Run(newStrategy(t, strategy.IDMACrossover, params), series, decimal.NewFromInt(5000))

	if !reflect.DeepEqual(first, second) {
		t.Error("identical runs produced different output")
	}
}

func TestSimulatorCashConservation(t *testing.T) {
	sim := NewSimulator(logger.NewNop())
	series := testSeries(t, 10, 8, 12, 7, 15, 20, 3, 30)
	capital := decimal.NewFromInt(1000)

	out := sim.Run(newStrategy(t, strategy.IDDCA, map[string]string{
		"contributionAmount": "200",
		"frequencyDays":      "3",
	}), series, capital)

	// Net cash spent on trades plus final cash must equal every dollar that
	// ever entered the portfolio.
	finalCash := out.TotalContributions.Sub(tradeCashFlow(out.Trades))
	if tradeCashFlow(out.Trades).Add(finalCash).Cmp(out.TotalContributions) != 0 {
		t.Errorf("cash not conserved: flow %s + cash %s != contributions %s",
			tradeCashFlow(out.Trades), finalCash, out.TotalContributions)
	}

	if finalCash.IsNegative() {
		t.Errorf("final cash = %s, want >= 0", finalCash)
	}
}
