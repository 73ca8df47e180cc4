package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"strategylab/internal/logger"
	"strategylab/internal/strategy"
	"strategylab/pkg/errors"
	"strategylab/types"
)

// PriceProvider is the engine-facing view of the external price collaborator.
type PriceProvider interface {
	FetchDailySeries(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error)
}

// Outcome is the per-request result of a batch run: either Result or Err is
// set, never both.
type Outcome struct {
	Request types.BacktestRequest
	RunID   string
	Result  *types.BacktestResult
	Err     error
}

// Orchestrator validates and runs batches of backtest requests. Simulations
// share no mutable state, so the batch runs concurrently up to the
// configured parallelism bound.
type Orchestrator struct {
	provider    PriceProvider
	catalog     *strategy.Catalog
	sim         *Simulator
	log         *logger.Logger
	parallelism int
	progress    func()
}

type Option func(*Orchestrator)

// WithParallelism bounds the number of simulations running at once.
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithProgress registers a callback invoked once per completed request.
func WithProgress(fn func()) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

func NewOrchestrator(provider PriceProvider, catalog *strategy.Catalog, log *logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}

	o := &Orchestrator{
		provider:    provider,
		catalog:     catalog,
		sim:         NewSimulator(log),
		log:         log,
		parallelism: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes every request and returns one outcome per request, in input
// order. A failure in one request never aborts its siblings; cancellation
// via ctx is all-or-nothing at the batch level.
func (o *Orchestrator) Run(ctx context.Context, requests []types.BacktestRequest) []Outcome {
	outcomes := make([]Outcome, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			outcomes[i] = o.runOne(gctx, req)
			if o.progress != nil {
				o.progress()
			}

			return nil
		})
	}

	// Workers report failures through their outcome, never through the
	// group.
	_ = g.Wait()

	return outcomes
}

func (o *Orchestrator) runOne(ctx context.Context, req types.BacktestRequest) Outcome {
	outcome := Outcome{Request: req, RunID: uuid.NewString()}
	log := o.log.With(
		zap.String("run_id", outcome.RunID),
		zap.String("symbol", req.Symbol),
		zap.String("strategy", req.StrategyID),
	)

	strat, err := o.validate(req)
	if err != nil {
		log.Warn("request rejected", zap.Error(err))
		outcome.Err = err

		return outcome
	}

	series, err := o.provider.FetchDailySeries(ctx, req.Symbol, req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("price series unavailable", zap.Error(err))
		outcome.Err = err

		return outcome
	}

	// Only trading days inside the requested range exist for the
	// simulation; absent days are skipped entirely.
	series = series.Slice(req.StartDate, req.EndDate)
	if series.Len() == 0 {
		outcome.Err = errors.Newf(errors.ErrCodeDataUnavailable,
			"no trading days for %s in [%s, %s]",
			req.Symbol, req.StartDate.Format(types.DateLayout), req.EndDate.Format(types.DateLayout))
		log.Warn("price series unavailable", zap.Error(outcome.Err))

		return outcome
	}

	run := o.sim.Run(strat, series, req.InitialCapital)
	metrics := ComputeMetrics(run.EquityCurve, run.Trades, run.TotalContributions, req.InitialCapital)

	outcome.Result = &types.BacktestResult{
		StrategyID:  req.StrategyID,
		Symbol:      req.Symbol,
		EquityCurve: run.EquityCurve,
		Trades:      run.Trades,
		Metrics:     metrics,
	}

	log.Info("backtest finished",
		zap.Int("trading_days", series.Len()),
		zap.Int("trades", metrics.NumberOfTrades),
		zap.String("final_value", metrics.FinalValue.String()),
	)

	return outcome
}

// validate checks the request fields and resolves the strategy before any
// data is fetched. All failures are per-request validation errors.
func (o *Orchestrator) validate(req types.BacktestRequest) (strategy.Strategy, error) {
	if req.Symbol == "" {
		return nil, errors.New(errors.ErrCodeValidation, "symbol is required")
	}

	if req.StartDate.After(req.EndDate) {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"startDate %s is after endDate %s",
			req.StartDate.Format(types.DateLayout), req.EndDate.Format(types.DateLayout))
	}

	if !req.InitialCapital.IsPositive() {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"initialCapital must be positive, got %s", req.InitialCapital)
	}

	return o.catalog.New(req.StrategyID, req.StrategyParams)
}
