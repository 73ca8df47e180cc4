package marketdata

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"strategylab/internal/logger"
	"strategylab/pkg/errors"
	"strategylab/types"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// chartResponse mirrors the subset of the Yahoo v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol           string `json:"symbol"`
				InstrumentType   string `json:"instrumentType"`
				LongName         string `json:"longName"`
				ShortName        string `json:"shortName"`
				ExchangeTimezone string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote    []quoteBlock    `json:"quote"`
				AdjClose []adjCloseBlock `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type quoteBlock struct {
	Close []*float64 `json:"close"`
}

type adjCloseBlock struct {
	AdjClose []*float64 `json:"adjclose"`
}

// YahooProvider fetches daily candles from the public Yahoo Finance chart
// endpoint. No API key is required.
type YahooProvider struct {
	client *resty.Client
	log    *logger.Logger
}

type YahooOption func(*YahooProvider)

// WithBaseURL overrides the endpoint, primarily for tests.
func WithBaseURL(url string) YahooOption {
	return func(p *YahooProvider) {
		p.client.SetBaseURL(url)
	}
}

func NewYahooProvider(log *logger.Logger, opts ...YahooOption) *YahooProvider {
	if log == nil {
		log = logger.NewNop()
	}

	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; strategylab/1.0)").
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	p := &YahooProvider{client: client, log: log}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// FetchDailySeries fetches daily closes for [start, end]. Days Yahoo reports
// with a null close are skipped; adjusted closes are preferred when present.
func (p *YahooProvider) FetchDailySeries(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	// period2 is exclusive upstream, so push it one day past the end.
	body, err := p.fetchChart(ctx, symbol, map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
		"events":   "history",
	})
	if err != nil {
		return types.PriceSeries{}, err
	}

	result := body.Chart.Result[0]

	closes := closesFrom(result.Indicators.Quote, result.Indicators.AdjClose)
	if len(closes) != len(result.Timestamp) {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeDataUnavailable,
			"yahoo returned %d closes for %d timestamps for %s", len(closes), len(result.Timestamp), symbol)
	}

	loc := exchangeLocation(result.Meta.ExchangeTimezone)
	points := make([]types.PricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}

		// A candle belongs to the trading day of its exchange, normalized
		// to a UTC-midnight date key.
		day := time.Unix(ts, 0).In(loc)
		points = append(points, types.PricePoint{
			Date:  types.Day(day.Year(), day.Month(), day.Day()),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}

	series, err := types.NewPriceSeries(symbol, points)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err,
			"yahoo returned no usable closes for %s", symbol)
	}

	p.log.Debug("fetched daily series",
		zap.String("symbol", symbol),
		zap.Int("trading_days", series.Len()),
	)

	return series, nil
}

// ValidateSymbol confirms the symbol exists by requesting a minimal chart
// window and reading the instrument metadata off the response.
func (p *YahooProvider) ValidateSymbol(ctx context.Context, symbol string) (types.Instrument, error) {
	body, err := p.fetchChart(ctx, symbol, map[string]string{
		"interval": "1d",
		"range":    "5d",
	})
	if err != nil {
		return types.Instrument{}, err
	}

	meta := body.Chart.Result[0].Meta

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}

	return types.Instrument{
		Symbol: meta.Symbol,
		Name:   name,
		Type:   meta.InstrumentType,
	}, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, params map[string]string) (*chartResponse, error) {
	var body chartResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		SetPathParam("symbol", symbol).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "yahoo request for %s failed", symbol)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable,
			"yahoo request for %s failed with status %d", symbol, resp.StatusCode())
	}

	if e := body.Chart.Error; e != nil {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable,
			"yahoo rejected %s: %s (%s)", symbol, e.Description, e.Code)
	}

	if len(body.Chart.Result) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "yahoo returned no result for %s", symbol)
	}

	return &body, nil
}

// closesFrom prefers split and dividend adjusted closes, falling back to raw
// closes when the adjusted block is absent.
func closesFrom(quote []quoteBlock, adj []adjCloseBlock) []*float64 {
	if len(adj) > 0 && len(adj[0].AdjClose) > 0 {
		return adj[0].AdjClose
	}

	if len(quote) > 0 {
		return quote[0].Close
	}

	return nil
}

func exchangeLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}

	return loc
}

var _ Provider = (*YahooProvider)(nil)
