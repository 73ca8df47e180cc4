package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategylab/types"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func storedSeries(t *testing.T) types.PriceSeries {
	t.Helper()

	series, err := types.NewPriceSeries("SPY", []types.PricePoint{
		{Date: types.Day(2024, time.January, 2), Close: decimal.RequireFromString("470.12")},
		{Date: types.Day(2024, time.January, 3), Close: decimal.RequireFromString("468.79")},
		{Date: types.Day(2024, time.January, 4), Close: decimal.RequireFromString("467.28")},
	})
	require.NoError(t, err)

	return series
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := types.Day(2024, time.January, 2)
	end := types.Day(2024, time.January, 4)
	series := storedSeries(t)

	_, ok, err := s.Get(ctx, "SPY", start, end)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "SPY", start, end, series))

	got, ok, err := s.Get(ctx, "SPY", start, end)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, series.Len(), got.Len())

	for i, want := range series.Points {
		assert.True(t, got.Points[i].Date.Equal(want.Date), "point %d date", i)
		assert.True(t, got.Points[i].Close.Equal(want.Close), "point %d close", i)
	}
}

func TestSQLiteStorePutIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := types.Day(2024, time.January, 2)
	end := types.Day(2024, time.January, 4)
	series := storedSeries(t)

	require.NoError(t, s.Put(ctx, "SPY", start, end, series))
	require.NoError(t, s.Put(ctx, "SPY", start, end, series))

	got, ok, err := s.Get(ctx, "SPY", start, end)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, series.Len(), got.Len())
}

func TestSQLiteStoreKeysRangesIndependently(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := types.Day(2024, time.January, 2)
	series := storedSeries(t)

	require.NoError(t, s.Put(ctx, "SPY", start, types.Day(2024, time.January, 4), series))

	// A different requested range is a miss even though the days overlap.
	_, ok, err := s.Get(ctx, "SPY", start, types.Day(2024, time.January, 5))
	require.NoError(t, err)
	assert.False(t, ok)

	// So is a different symbol.
	_, ok, err = s.Get(ctx, "QQQ", start, types.Day(2024, time.January, 4))
	require.NoError(t, err)
	assert.False(t, ok)
}
