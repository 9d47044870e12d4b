package portfolio

import (
	"fmt"

	"github.com/dshills/chronicle/internal/engine/history"
)

// TradeCommand is an invertible command that changes one holding.
// It remembers the holding as it was before Apply so Invert can put it back.
type TradeCommand struct {
	description string
	symbol      string
	change      func(h Holding) (Holding, error)

	before  Holding
	applied bool
}

var (
	_ history.Command[*Portfolio]  = (*TradeCommand)(nil)
	_ history.Inverter[*Portfolio] = (*TradeCommand)(nil)
)

// Buy adds quantity shares of symbol.
func Buy(symbol string, quantity int) *TradeCommand {
	return &TradeCommand{
		description: fmt.Sprintf("buy %d %s", quantity, symbol),
		symbol:      symbol,
		change: func(h Holding) (Holding, error) {
			if quantity <= 0 {
				return h, ErrInvalidQuantity
			}
			h.Shares += quantity
			return h, nil
		},
	}
}

// Sell removes quantity shares of symbol. It fails with
// ErrInsufficientShares if fewer are held.
func Sell(symbol string, quantity int) *TradeCommand {
	return &TradeCommand{
		description: fmt.Sprintf("sell %d %s", quantity, symbol),
		symbol:      symbol,
		change: func(h Holding) (Holding, error) {
			if quantity <= 0 {
				return h, ErrInvalidQuantity
			}
			if quantity > h.Shares {
				return h, &InsufficientSharesError{Symbol: symbol, Requested: quantity, Held: h.Shares}
			}
			h.Shares -= quantity
			return h, nil
		},
	}
}

// SetPrice quotes symbol at price.
func SetPrice(symbol string, price float64) *TradeCommand {
	return &TradeCommand{
		description: fmt.Sprintf("price %s at %.2f", symbol, price),
		symbol:      symbol,
		change: func(h Holding) (Holding, error) {
			if price < 0 {
				return h, ErrInvalidPrice
			}
			h.Price = price
			return h, nil
		},
	}
}

// Apply performs the trade. On failure p is unchanged.
func (c *TradeCommand) Apply(p *Portfolio) error {
	before := p.get(c.symbol)
	after, err := c.change(before)
	if err != nil {
		return err
	}
	p.set(after)
	c.before = before
	c.applied = true
	return nil
}

// Invert restores the holding as it was before the most recent Apply.
func (c *TradeCommand) Invert(p *Portfolio) error {
	if !c.applied {
		return ErrNotApplied
	}
	p.set(c.before)
	c.applied = false
	return nil
}

// Description returns a human-readable description of the trade.
func (c *TradeCommand) Description() string {
	return c.description
}
