package types

// Instrument identifies a tradable symbol as reported by the market data
// source.
type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}
