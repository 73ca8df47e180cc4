package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"strategylab/internal/config"
	"strategylab/internal/engine"
	"strategylab/internal/logger"
	"strategylab/internal/marketdata"
	"strategylab/internal/repository"
	"strategylab/internal/store"
	"strategylab/internal/strategy"
	"strategylab/types"
)

// runAction wires the configured provider, builds one request per requested
// strategy, and prints a report for every outcome.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	capital, err := decimal.NewFromString(cmd.String("capital"))
	if err != nil {
		return fmt.Errorf("invalid --capital %q: %w", cmd.String("capital"), err)
	}

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	provider, cleanup, err := buildProvider(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	symbol := strings.ToUpper(cmd.String("symbol"))

	inst, err := provider.ValidateSymbol(ctx, symbol)
	if err != nil {
		return err
	}

	log.Info("instrument resolved",
		zap.String("symbol", inst.Symbol),
		zap.String("name", inst.Name),
		zap.String("type", inst.Type),
	)

	strategies := cmd.StringSlice("strategy")
	requests := make([]types.BacktestRequest, 0, len(strategies))

	for _, id := range strategies {
		requests = append(requests, types.BacktestRequest{
			Symbol:         symbol,
			StrategyID:     id,
			StartDate:      cmd.Timestamp("start").UTC(),
			EndDate:        cmd.Timestamp("end").UTC(),
			InitialCapital: capital,
			StrategyParams: params,
		})
	}

	bar := initProgressBar(len(requests))
	orchestrator := engine.NewOrchestrator(provider, strategy.NewCatalog(), log,
		engine.WithParallelism(cfg.Engine.MaxParallel),
		engine.WithProgress(func() { _ = bar.Add(1) }),
	)

	outcomes := orchestrator.Run(ctx, requests)
	fmt.Println()

	failed := 0

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "backtest %s/%s failed: %v\n",
				outcome.Request.Symbol, outcome.Request.StrategyID, outcome.Err)

			continue
		}

		engine.WriteReport(os.Stdout, outcome.Result)
		fmt.Println()

		if dir := cmd.String("out"); dir != "" {
			if err := writeArtifacts(dir, outcome); err != nil {
				return err
			}
		}
	}

	if failed == len(outcomes) {
		return fmt.Errorf("all %d backtests failed", failed)
	}

	return nil
}

// buildProvider returns the configured price provider plus a cleanup
// function for its resources.
func buildProvider(ctx context.Context, cfg *config.Config, log *logger.Logger) (marketdata.Provider, func(), error) {
	switch cfg.Data.Provider {
	case "postgres":
		db, err := repository.NewDatabase(ctx, cfg.Data.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to datasource: %w", err)
		}

		return db, db.Close, nil

	default:
		yahoo := marketdata.NewYahooProvider(log)

		var seriesStore marketdata.SeriesStore = marketdata.NewMemoryStore()
		cleanup := func() {}

		if cfg.Data.CachePath != "" {
			sqlStore, err := store.NewSQLiteStore(cfg.Data.CachePath)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open series cache: %w", err)
			}

			seriesStore = sqlStore
			cleanup = func() { _ = sqlStore.Close() }
		}

		return marketdata.NewCachedProvider(yahoo, seriesStore, log), cleanup, nil
	}
}

// parseParams turns repeated key=value flags into a strategy parameter map.
func parseParams(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	params := make(map[string]string, len(raw))

	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", kv)
		}

		params[key] = value
	}

	return params, nil
}

// writeArtifacts dumps the trade ledger and equity curve CSVs for one
// finished backtest.
func writeArtifacts(dir string, outcome engine.Outcome) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	prefix := fmt.Sprintf("%s_%s", outcome.Result.Symbol, outcome.Result.StrategyID)

	tradesPath := filepath.Join(dir, prefix+"_trades.csv")
	if err := engine.WriteTradesCSVFile(tradesPath, outcome.Result.Trades); err != nil {
		return err
	}

	curvePath := filepath.Join(dir, prefix+"_equity.csv")
	if err := engine.WriteEquityCurveCSVFile(curvePath, outcome.Result.EquityCurve); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n", tradesPath, curvePath)

	return nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// listAction prints the strategy catalog with parameter defaults.
func listAction(_ context.Context, _ *cli.Command) error {
	for _, desc := range strategy.NewCatalog().List() {
		fmt.Printf("%s (%s)\n  %s\n", desc.ID, desc.DisplayName, desc.Description)

		for _, p := range desc.Params {
			fmt.Printf("  --param %s=<%s>  %s (default %s)\n", p.Name, p.Type, p.Description, p.Default)
		}

		fmt.Println()
	}

	return nil
}

func main() {
	runCmd := &cli.Command{
		Name:   "run",
		Usage:  "Backtest one or more strategies over a date range",
		Action: runAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Instrument ticker symbol",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "strategy",
				Aliases: []string{"S"},
				Usage:   "Strategy id to run; repeat to compare strategies on the same window",
				Value:   []string{strategy.IDBuyAndHold},
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "capital",
				Usage: "Initial capital for every run",
				Value: "10000",
			},
			&cli.StringSliceFlag{
				Name:    "param",
				Aliases: []string{"p"},
				Usage:   "Strategy parameter as key=value; repeatable",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory for trade and equity curve CSV artifacts",
			},
		},
	}

	cmd := &cli.Command{
		Name:  "strategylab",
		Usage: "Run deterministic strategy backtests over daily price history",
		Commands: []*cli.Command{
			runCmd,
			{
				Name:   "strategies",
				Usage:  "List available strategies and their parameters",
				Action: listAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
