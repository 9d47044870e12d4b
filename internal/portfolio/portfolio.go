// Package portfolio provides a stock portfolio whose trades are recorded
// by the history engine.
//
// Buy, Sell and SetPrice are invertible commands. Selling more shares than
// are held fails with ErrInsufficientShares and leaves the portfolio as it
// was.
package portfolio

import (
	"maps"
	"slices"
)

// Holding is the position in one stock.
type Holding struct {
	Symbol string
	Shares int
	Price  float64
}

// Value returns shares times price.
func (h Holding) Value() float64 {
	return float64(h.Shares) * h.Price
}

// Portfolio is a named set of holdings keyed by symbol.
// It is not safe for concurrent use; the engine serializes access.
type Portfolio struct {
	name     string
	holdings map[string]Holding
}

// New creates an empty portfolio.
func New(name string) *Portfolio {
	return &Portfolio{
		name:     name,
		holdings: make(map[string]Holding),
	}
}

// Clone returns an independent copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	return &Portfolio{
		name:     p.name,
		holdings: maps.Clone(p.holdings),
	}
}

// Name returns the portfolio name.
func (p *Portfolio) Name() string {
	return p.name
}

// Holding returns the holding for symbol.
func (p *Portfolio) Holding(symbol string) (Holding, bool) {
	h, ok := p.holdings[symbol]
	return h, ok
}

// Shares returns the number of shares held in symbol.
func (p *Portfolio) Shares(symbol string) int {
	return p.holdings[symbol].Shares
}

// Holdings returns every holding sorted by symbol.
func (p *Portfolio) Holdings() []Holding {
	result := make([]Holding, 0, len(p.holdings))
	for _, sym := range slices.Sorted(maps.Keys(p.holdings)) {
		result = append(result, p.holdings[sym])
	}
	return result
}

// Value returns the total market value.
func (p *Portfolio) Value() float64 {
	var total float64
	for _, h := range p.holdings {
		total += h.Value()
	}
	return total
}

// set stores h, dropping holdings with no shares and no quoted price.
func (p *Portfolio) set(h Holding) {
	if h.Shares == 0 && h.Price == 0 {
		delete(p.holdings, h.Symbol)
		return
	}
	p.holdings[h.Symbol] = h
}

// get returns the holding for symbol, or an empty one.
func (p *Portfolio) get(symbol string) Holding {
	if h, ok := p.holdings[symbol]; ok {
		return h
	}
	return Holding{Symbol: symbol}
}
