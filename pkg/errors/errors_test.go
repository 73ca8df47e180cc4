package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrCodeValidation, "symbol is required")
	assert.Contains(t, err.Error(), "symbol is required")

	err = Newf(ErrCodeUnknownStrategy, "unknown strategy %q", "martingale")
	assert.Contains(t, err.Error(), `unknown strategy "martingale"`)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeDataUnavailable, "fetch failed", cause)

	assert.Contains(t, err.Error(), "fetch failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, stderrors.Is(err, cause))
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodeValidation, "bad request")

	assert.True(t, HasCode(err, ErrCodeValidation))
	assert.False(t, HasCode(err, ErrCodeDataUnavailable))
	assert.False(t, HasCode(nil, ErrCodeValidation))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeValidation))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(ErrCodeDataUnavailable, "no candles")
	outer := fmt.Errorf("running backtest: %w", inner)

	assert.True(t, HasCode(outer, ErrCodeDataUnavailable))
	assert.Equal(t, ErrCodeDataUnavailable, GetCode(outer))
}

func TestGetCodeDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, ErrCodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeUnknown, GetCode(nil))
}
