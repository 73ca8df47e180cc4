// Package engine contains the backtest core: the day-stepping portfolio
// simulator, the metrics calculator, and the batch orchestrator.
package engine

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"strategylab/internal/logger"
	"strategylab/internal/strategy"
	"strategylab/types"
)

// portfolioState is the mutable accounting state of one running simulation.
// Exactly one instance exists per simulation and it is never shared.
type portfolioState struct {
	cash       decimal.Decimal
	sharesHeld decimal.Decimal
}

// RunOutput is everything a finished simulation produces besides metrics.
type RunOutput struct {
	EquityCurve        []types.EquityPoint
	Trades             []types.Trade
	TotalContributions decimal.Decimal
}

// Simulator replays trading days against a strategy and keeps the books.
type Simulator struct {
	log *logger.Logger
}

func NewSimulator(log *logger.Logger) *Simulator {
	if log == nil {
		log = logger.NewNop()
	}

	return &Simulator{log: log}
}

// Run advances day by day over the series, injecting contributions, applying
// clamped strategy decisions, and recording the trade ledger and equity
// curve. The series must already be intersected with the requested range;
// one equity point is emitted per trading day, in date order.
//
// Proposed trades that would overdraw cash or oversell shares are clamped,
// never rejected: every request stays resolvable without mid-simulation
// failure. Cash and shares never go negative.
func (s *Simulator) Run(strat strategy.Strategy, series types.PriceSeries, initialCapital decimal.Decimal) RunOutput {
	state := portfolioState{
		cash:       initialCapital,
		sharesHeld: decimal.Zero,
	}

	out := RunOutput{
		EquityCurve:        make([]types.EquityPoint, 0, series.Len()),
		Trades:             nil,
		TotalContributions: initialCapital,
	}

	for i, today := range series.Points {
		if injected := strat.Contribution(i); injected.IsPositive() {
			state.cash = state.cash.Add(injected)
			out.TotalContributions = out.TotalContributions.Add(injected)
		}

		view := types.PortfolioView{Cash: state.cash, SharesHeld: state.sharesHeld}
		decision := strat.Decide(view, series.Points[:i+1], today)

		if trade, ok := s.applyDecision(&state, decision, today); ok {
			out.Trades = append(out.Trades, trade)
		}

		out.EquityCurve = append(out.EquityCurve, types.EquityPoint{
			Date:           today.Date,
			PortfolioValue: state.cash.Add(state.sharesHeld.Mul(today.Close)),
		})
	}

	s.log.Debug("simulation finished",
		zap.String("strategy", strat.ID()),
		zap.String("symbol", series.Symbol),
		zap.Int("trading_days", series.Len()),
		zap.Int("trades", len(out.Trades)),
	)

	return out
}

// applyDecision clamps and books one decision. The second return value is
// false when no trade was recorded (hold, or a clamp reduced the quantity
// to zero).
func (s *Simulator) applyDecision(state *portfolioState, decision strategy.Decision, today types.PricePoint) (types.Trade, bool) {
	price := today.Close
	reason := decision.Reason

	var qty decimal.Decimal

	switch decision.Action {
	case strategy.ActionBuy:
		qty = decision.Quantity
		if max := strategy.MaxAffordable(state.cash, price); qty.GreaterThan(max) {
			qty = max
			reason += " (clamped to available cash)"
		}

		if !qty.IsPositive() {
			return types.Trade{}, false
		}

		state.cash = state.cash.Sub(qty.Mul(price))
		state.sharesHeld = state.sharesHeld.Add(qty)

		return types.Trade{Date: today.Date, Action: types.TradeActionBuy, Quantity: qty, Price: price, Reason: reason}, true

	case strategy.ActionSell:
		qty = decision.Quantity
		if qty.GreaterThan(state.sharesHeld) {
			qty = state.sharesHeld
			reason += " (clamped to shares held)"
		}

		if !qty.IsPositive() {
			return types.Trade{}, false
		}

		state.cash = state.cash.Add(qty.Mul(price))
		state.sharesHeld = state.sharesHeld.Sub(qty)

		return types.Trade{Date: today.Date, Action: types.TradeActionSell, Quantity: qty, Price: price, Reason: reason}, true
	}

	return types.Trade{}, false
}
