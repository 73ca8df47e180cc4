package engine

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategylab/types"
)

func sampleResult(t *testing.T) *types.BacktestResult {
	t.Helper()

	start := types.Day(2024, time.January, 2)

	return &types.BacktestResult{
		StrategyID: "buy_and_hold",
		Symbol:     "SPY",
		EquityCurve: []types.EquityPoint{
			{Date: start, PortfolioValue: decimal.NewFromInt(1000)},
			{Date: start.AddDate(0, 0, 1), PortfolioValue: decimal.NewFromInt(1100)},
		},
		Trades: []types.Trade{
			{Date: start, Action: types.TradeActionBuy, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), Reason: "initial buy with all capital"},
		},
		Metrics: types.Metrics{
			FinalValue:         decimal.NewFromInt(1100),
			TotalContributions: decimal.NewFromInt(1000),
			CAGR:               decimal.NewFromFloat(0.1),
			MaxDrawdown:        decimal.NewFromFloat(-0.05),
			NumberOfTrades:     1,
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer

	WriteReport(&buf, sampleResult(t))
	out := buf.String()

	assert.Contains(t, out, "Strategy:              buy_and_hold")
	assert.Contains(t, out, "Symbol:                SPY")
	assert.Contains(t, out, "Trading Days:          2")
	assert.Contains(t, out, "Final Value:           1100.00")
	assert.Contains(t, out, "Max Drawdown:          -0.05")
	assert.Contains(t, out, "Total Trades:          1")
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer

	res := sampleResult(t)
	require.NoError(t, WriteTradesCSV(&buf, res.Trades))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"date", "action", "quantity", "price", "reason"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "BUY", "10", "100", "initial buy with all capital"}, records[1])
}

func TestWriteEquityCurveCSV(t *testing.T) {
	var buf bytes.Buffer

	res := sampleResult(t)
	require.NoError(t, WriteEquityCurveCSV(&buf, res.EquityCurve))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "portfolio_value"}, records[0])
	assert.Equal(t, []string{"2024-01-02", "1000"}, records[1])
	assert.Equal(t, []string{"2024-01-03", "1100"}, records[2])
}
