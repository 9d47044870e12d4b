package portfolio

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaBridge passes a Portfolio to Lua scripts as a table keyed by symbol:
//
//	{ AAPL = { shares = 100, price = 150.0 }, ... }
//
// A script returns a table of the same shape to replace the holdings.
type LuaBridge struct{}

// Push returns the holdings as a table.
func (LuaBridge) Push(L *lua.LState, p *Portfolio) lua.LValue {
	tbl := L.NewTable()
	for _, h := range p.Holdings() {
		row := L.NewTable()
		row.RawSetString("shares", lua.LNumber(h.Shares))
		row.RawSetString("price", lua.LNumber(h.Price))
		tbl.RawSetString(h.Symbol, row)
	}
	return tbl
}

// Pull replaces the holdings with those in result. Negative shares or
// prices are rejected and leave p unchanged.
func (LuaBridge) Pull(_ *lua.LState, result lua.LValue, p *Portfolio) error {
	tbl, ok := result.(*lua.LTable)
	if !ok {
		return fmt.Errorf("portfolio script must return a table, got %s", result.Type())
	}

	holdings := make(map[string]Holding)
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		sym, ok := k.(lua.LString)
		row, isTable := v.(*lua.LTable)
		if !ok || !isTable {
			err = fmt.Errorf("holding %s: want symbol = {shares, price}", k.String())
			return
		}
		shares, _ := row.RawGetString("shares").(lua.LNumber)
		price, _ := row.RawGetString("price").(lua.LNumber)
		if shares < 0 || shares != lua.LNumber(int(shares)) {
			err = fmt.Errorf("holding %s: %w", sym, ErrInvalidQuantity)
			return
		}
		if price < 0 {
			err = fmt.Errorf("holding %s: %w", sym, ErrInvalidPrice)
			return
		}
		h := Holding{Symbol: string(sym), Shares: int(shares), Price: float64(price)}
		if h.Shares != 0 || h.Price != 0 {
			holdings[h.Symbol] = h
		}
	})
	if err != nil {
		return err
	}

	p.holdings = holdings
	return nil
}
