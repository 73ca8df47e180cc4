package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// pgSource runs the real queries against the pool. Decimal columns scan
// straight into shopspring values through the registered codecs.
type pgSource struct {
	conn *pgxpool.Pool
}

var _ dailyCloseSource = pgSource{}

func (s pgSource) InstrumentBySymbol(ctx context.Context, symbol string) (instrumentRow, error) {
	var row instrumentRow

	err := s.conn.QueryRow(ctx,
		`SELECT symbol, name, type FROM instruments WHERE symbol = $1`,
		symbol,
	).Scan(&row.Symbol, &row.Name, &row.Type)
	if err != nil {
		return instrumentRow{}, err
	}

	return row, nil
}

func (s pgSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]closeRow, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT day, close
		 FROM daily_closes
		 WHERE symbol = $1 AND day >= $2 AND day <= $3
		 ORDER BY day`,
		symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []closeRow

	for rows.Next() {
		var day time.Time
		var close decimal.Decimal

		if err := rows.Scan(&day, &close); err != nil {
			return nil, err
		}

		out = append(out, closeRow{Day: day, Close: close})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
