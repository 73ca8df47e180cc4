// Package strategy holds the closed catalog of backtest strategies and the
// per-day decision logic for each variant. One strategy instance serves
// exactly one simulation and is never shared.
package strategy

import "strategylab/pkg/errors"

// Strategy ids as used in requests.
const (
	IDBuyAndHold  = "buy_and_hold"
	IDDCA         = "dca"
	IDMACrossover = "ma_crossover"
)

type ParamType string

const (
	ParamTypeInteger ParamType = "integer"
	ParamTypeNumber  ParamType = "number"
)

// ParamDescriptor declares one parameter a strategy accepts, with the
// default used when the request omits it.
type ParamDescriptor struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        ParamType `json:"type"`
	Default     string    `json:"default"`
}

// Descriptor is the catalog entry for one strategy.
type Descriptor struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	Params      []ParamDescriptor `json:"parameters"`
}

// Catalog is the immutable, process-wide strategy lookup table. Build it
// once at startup and inject it wherever requests are validated.
type Catalog struct {
	byID  map[string]Descriptor
	order []string
}

// NewCatalog builds the catalog of built-in strategies.
func NewCatalog() *Catalog {
	descriptors := []Descriptor{
		{
			ID:          IDBuyAndHold,
			DisplayName: "Buy & Hold",
			Description: "Invest all initial capital at the first close and hold until the end. No additional contributions.",
		},
		{
			ID:          IDDCA,
			DisplayName: "Dollar Cost Averaging (DCA)",
			Description: "Buy a fixed dollar amount every N trading days. No selling. Fractional shares allowed.",
			Params: []ParamDescriptor{
				{Name: "contributionAmount", Description: "Dollar amount to invest each period", Type: ParamTypeNumber, Default: "500"},
				{Name: "frequencyDays", Description: "Trading days between contributions (5=weekly, 21=monthly)", Type: ParamTypeInteger, Default: "21"},
			},
		},
		{
			ID:          IDMACrossover,
			DisplayName: "Moving Average Crossover",
			Description: "Buy on a golden cross of the short SMA over the long SMA, sell the whole position on a death cross.",
			Params: []ParamDescriptor{
				{Name: "shortWindow", Description: "Short SMA window (trading days)", Type: ParamTypeInteger, Default: "20"},
				{Name: "longWindow", Description: "Long SMA window (trading days)", Type: ParamTypeInteger, Default: "50"},
			},
		},
	}

	c := &Catalog{byID: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}

	return c
}

// Get returns the descriptor for the given id.
func (c *Catalog) Get(id string) (Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// List returns all descriptors in registration order.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}

	return out
}

// New resolves raw request parameters against the catalog and constructs a
// fresh strategy instance. This is the single dispatch point over the closed
// set of variants.
func (c *Catalog) New(id string, rawParams map[string]string) (Strategy, error) {
	desc, ok := c.Get(id)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy id %q", id)
	}

	params, err := ResolveParams(desc, rawParams)
	if err != nil {
		return nil, err
	}

	switch id {
	case IDBuyAndHold:
		return newBuyAndHold(), nil
	case IDDCA:
		return newDCA(params)
	case IDMACrossover:
		return newMACrossover(params)
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "strategy %q has no implementation", id)
	}
}
