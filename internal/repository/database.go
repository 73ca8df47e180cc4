// Package repository reads daily close series out of a Postgres datasource
// for deployments that keep their own price history.
package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"strategylab/internal/marketdata"
	"strategylab/pkg/errors"
	"strategylab/types"
)

type instrumentRow struct {
	Symbol string
	Name   string
	Type   string
}

type closeRow struct {
	Day   time.Time
	Close decimal.Decimal
}

// dailyCloseSource is the query seam between Database and the actual
// Postgres connection, mockable in tests.
type dailyCloseSource interface {
	InstrumentBySymbol(ctx context.Context, symbol string) (instrumentRow, error)
	DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]closeRow, error)
}

// Database implements marketdata.Provider on top of a Postgres pool.
type Database struct {
	source dailyCloseSource
	conn   *pgxpool.Pool
}

var _ marketdata.Provider = (*Database)(nil)

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal codecs on every connection.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return &Database{source: pgSource{conn: conn}, conn: conn}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}

// FetchDailySeries loads the stored closes for symbol in [start, end].
func (db *Database) FetchDailySeries(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	rows, err := db.source.DailyCloses(ctx, symbol, start, end)
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("query daily closes for %s: %w", symbol, err)
	}

	if len(rows) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeDataUnavailable,
			"no stored closes for %s in [%s, %s]",
			symbol, start.Format(types.DateLayout), end.Format(types.DateLayout))
	}

	points := make([]types.PricePoint, 0, len(rows))
	for _, row := range rows {
		day := row.Day.UTC()
		points = append(points, types.PricePoint{
			Date:  types.Day(day.Year(), day.Month(), day.Day()),
			Close: row.Close,
		})
	}

	series, err := types.NewPriceSeries(symbol, points)
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("build series for %s: %w", symbol, err)
	}

	return series, nil
}

// ValidateSymbol resolves symbol against the instruments table.
func (db *Database) ValidateSymbol(ctx context.Context, symbol string) (types.Instrument, error) {
	row, err := db.source.InstrumentBySymbol(ctx, symbol)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return types.Instrument{}, errors.Newf(errors.ErrCodeDataUnavailable,
				"symbol %s not found in datasource", symbol)
		}

		return types.Instrument{}, fmt.Errorf("query instrument %s: %w", symbol, err)
	}

	return types.Instrument{Symbol: row.Symbol, Name: row.Name, Type: row.Type}, nil
}
