package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	points := series(10, 20, 30, 40)

	got, ok := sma(points, 2)
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(35)), got.String())

	got, ok = sma(points, 4)
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(25)), got.String())
}

func TestSMAInsufficientHistory(t *testing.T) {
	points := series(10, 20)

	_, ok := sma(points, 3)
	assert.False(t, ok)

	_, ok = sma(nil, 1)
	assert.False(t, ok)

	_, ok = sma(points, 0)
	assert.False(t, ok)
}
