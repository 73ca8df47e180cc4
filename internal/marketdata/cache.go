package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"strategylab/internal/logger"
	"strategylab/types"
)

// SeriesStore persists fetched series keyed by symbol and requested range.
// A miss is (zero, false, nil); errors are reserved for storage failures.
type SeriesStore interface {
	Get(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, bool, error)
	Put(ctx context.Context, symbol string, start, end time.Time, series types.PriceSeries) error
}

// cacheKey matches the upstream request exactly; overlapping ranges are
// cached independently rather than stitched together.
func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:1d", symbol, start.Format(types.DateLayout), end.Format(types.DateLayout))
}

// MemoryStore is an in-process SeriesStore for runs without a cache file.
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string]types.PriceSeries
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{series: make(map[string]types.PriceSeries)}
}

func (m *MemoryStore) Get(_ context.Context, symbol string, start, end time.Time) (types.PriceSeries, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.series[cacheKey(symbol, start, end)]

	return s, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, symbol string, start, end time.Time, series types.PriceSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.series[cacheKey(symbol, start, end)] = series

	return nil
}

var _ SeriesStore = (*MemoryStore)(nil)

// CachedProvider decorates a Provider with a read-through series cache and
// an in-process symbol validation memo. Storage failures degrade to the
// delegate instead of failing the request.
type CachedProvider struct {
	delegate Provider
	store    SeriesStore
	log      *logger.Logger

	mu          sync.Mutex
	instruments map[string]types.Instrument
}

func NewCachedProvider(delegate Provider, store SeriesStore, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.NewNop()
	}

	return &CachedProvider{
		delegate:    delegate,
		store:       store,
		log:         log,
		instruments: make(map[string]types.Instrument),
	}
}

func (c *CachedProvider) FetchDailySeries(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	if series, ok, err := c.store.Get(ctx, symbol, start, end); err != nil {
		c.log.Warn("series cache read failed", zap.String("symbol", symbol), zap.Error(err))
	} else if ok {
		c.log.Debug("series cache hit", zap.String("symbol", symbol))

		return series, nil
	}

	series, err := c.delegate.FetchDailySeries(ctx, symbol, start, end)
	if err != nil {
		return types.PriceSeries{}, err
	}

	if err := c.store.Put(ctx, symbol, start, end, series); err != nil {
		c.log.Warn("series cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}

	return series, nil
}

func (c *CachedProvider) ValidateSymbol(ctx context.Context, symbol string) (types.Instrument, error) {
	c.mu.Lock()
	inst, ok := c.instruments[symbol]
	c.mu.Unlock()

	if ok {
		return inst, nil
	}

	inst, err := c.delegate.ValidateSymbol(ctx, symbol)
	if err != nil {
		return types.Instrument{}, err
	}

	c.mu.Lock()
	c.instruments[symbol] = inst
	c.mu.Unlock()

	return inst, nil
}

var _ Provider = (*CachedProvider)(nil)
