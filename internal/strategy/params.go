package strategy

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"strategylab/pkg/errors"
)

// Params is the typed view of a request's strategyParams after resolution
// against the strategy's declared schema.
type Params struct {
	ints     map[string]int
	decimals map[string]decimal.Decimal
}

// ResolveParams validates raw string parameters against the descriptor's
// schema. Unknown keys are ignored, missing or blank values fall back to the
// declared default, and values that fail to parse as their declared type are
// a validation error naming the parameter.
func ResolveParams(desc Descriptor, raw map[string]string) (Params, error) {
	p := Params{
		ints:     make(map[string]int),
		decimals: make(map[string]decimal.Decimal),
	}

	for _, pd := range desc.Params {
		value, ok := raw[pd.Name]
		if !ok || strings.TrimSpace(value) == "" {
			value = pd.Default
		}

		switch pd.Type {
		case ParamTypeInteger:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return Params{}, errors.Newf(errors.ErrCodeValidation,
					"parameter %s must be a valid integer, got %q", pd.Name, value)
			}

			p.ints[pd.Name] = n
		case ParamTypeNumber:
			d, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil {
				return Params{}, errors.Newf(errors.ErrCodeValidation,
					"parameter %s must be a valid number, got %q", pd.Name, value)
			}

			p.decimals[pd.Name] = d
		}
	}

	return p, nil
}

// Int returns the resolved integer parameter.
func (p Params) Int(name string) int {
	return p.ints[name]
}

// Decimal returns the resolved number parameter.
func (p Params) Decimal(name string) decimal.Decimal {
	return p.decimals[name]
}
