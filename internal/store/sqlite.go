// Package store persists fetched price series between runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"strategylab/internal/marketdata"
	"strategylab/types"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

var _ marketdata.SeriesStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS daily_closes (
    symbol    TEXT NOT NULL,
    start_day TEXT NOT NULL,
    end_day   TEXT NOT NULL,
    day       TEXT NOT NULL,
    close     TEXT NOT NULL,
    PRIMARY KEY (symbol, start_day, end_day, day)
);`

// SQLiteStore implements marketdata.SeriesStore backed by a SQLite database.
// Rows are keyed by symbol plus the requested range, mirroring the cache key
// used by the read-through decorator.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and prepares
// the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, close FROM daily_closes
		 WHERE symbol = ? AND start_day = ? AND end_day = ?
		 ORDER BY day`,
		symbol, start.Format(types.DateLayout), end.Format(types.DateLayout))
	if err != nil {
		return types.PriceSeries{}, false, fmt.Errorf("query daily closes: %w", err)
	}
	defer rows.Close()

	var points []types.PricePoint

	for rows.Next() {
		var day, closeStr string
		if err := rows.Scan(&day, &closeStr); err != nil {
			return types.PriceSeries{}, false, fmt.Errorf("scan daily close: %w", err)
		}

		date, err := time.ParseInLocation(types.DateLayout, day, time.UTC)
		if err != nil {
			return types.PriceSeries{}, false, fmt.Errorf("parse cached day %q: %w", day, err)
		}

		close, err := decimal.NewFromString(closeStr)
		if err != nil {
			return types.PriceSeries{}, false, fmt.Errorf("parse cached close %q: %w", closeStr, err)
		}

		points = append(points, types.PricePoint{Date: date, Close: close})
	}

	if err := rows.Err(); err != nil {
		return types.PriceSeries{}, false, fmt.Errorf("iterate daily closes: %w", err)
	}

	if len(points) == 0 {
		return types.PriceSeries{}, false, nil
	}

	series, err := types.NewPriceSeries(symbol, points)
	if err != nil {
		return types.PriceSeries{}, false, fmt.Errorf("rebuild cached series: %w", err)
	}

	return series, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, symbol string, start, end time.Time, series types.PriceSeries) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO daily_closes (symbol, start_day, end_day, day, close)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	startDay := start.Format(types.DateLayout)
	endDay := end.Format(types.DateLayout)

	for _, p := range series.Points {
		if _, err := stmt.ExecContext(ctx, symbol, startDay, endDay,
			p.Date.Format(types.DateLayout), p.Close.String()); err != nil {
			return fmt.Errorf("insert daily close: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
