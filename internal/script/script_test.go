package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/document"
	"github.com/dshills/chronicle/internal/engine"
	"github.com/dshills/chronicle/internal/portfolio"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateCall(t *testing.T) {
	s := newState(t)
	if err := s.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatal(err)
	}

	results, err := s.Call(context.Background(), "add", lua.LNumber(2), lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(results) != 2 || results[0] != lua.LNumber(5) || results[1] != lua.LString("done") {
		t.Errorf("Call() = %v", results)
	}
}

func TestStateCallErrors(t *testing.T) {
	s := newState(t)
	s.DoString(`
		notfn = 42
		function boom() error("bad input") end
	`)

	if _, err := s.Call(context.Background(), "missing"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("Call(missing) = %v", err)
	}
	if _, err := s.Call(context.Background(), "notfn"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("Call(notfn) = %v", err)
	}

	_, err := s.Call(context.Background(), "boom")
	var serr *ScriptError
	if !errors.As(err, &serr) || serr.Function != "boom" {
		t.Fatalf("Call(boom) = %v", err)
	}
	if !strings.Contains(err.Error(), "bad input") {
		t.Errorf("error = %q", err)
	}
}

func TestSandbox(t *testing.T) {
	s := newState(t)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module", "io", "os", "debug"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := s.GetGlobal(name); v == lua.LNil {
			t.Errorf("global %s missing", name)
		}
	}
	if err := s.DoString(`os.execute("true")`); err == nil {
		t.Error("os should not be reachable")
	}
}

func TestTimeout(t *testing.T) {
	s := newState(t, WithTimeout(50*time.Millisecond))
	s.DoString(`function spin() while true do end end`)

	start := time.Now()
	_, err := s.Call(context.Background(), "spin")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("Call(spin) = %v, want ErrExecutionTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not interrupt the script")
	}

	// The state remains usable
	s.DoString(`function ok() return 1 end`)
	if _, err := s.Call(context.Background(), "ok"); err != nil {
		t.Errorf("Call after timeout = %v", err)
	}
}

func TestDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.lua")
	if err := os.WriteFile(path, []byte(`function twice(s) return s .. s end`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newState(t)
	if err := s.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	results, err := s.Call(context.Background(), "twice", lua.LString("ab"))
	if err != nil || results[0] != lua.LString("abab") {
		t.Errorf("twice = %v, %v", results, err)
	}
}

func TestClosedState(t *testing.T) {
	s, _ := NewState()
	s.Close()
	s.Close()

	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() = %v", err)
	}
	if _, err := s.Call(context.Background(), "f"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() = %v", err)
	}
	if s.GetGlobal("string") != lua.LNil {
		t.Error("GetGlobal on closed state should be nil")
	}
}

func TestRegisterFunc(t *testing.T) {
	s := newState(t)
	s.RegisterFunc("host_upper", func(L *lua.LState) int {
		L.Push(lua.LString(strings.ToUpper(L.CheckString(1))))
		return 1
	})
	s.SetGlobal("suffix", lua.LString("!"))
	s.DoString(`function shout(s) return host_upper(s) .. suffix end`)

	results, err := s.Call(context.Background(), "shout", lua.LString("hi"))
	if err != nil || results[0] != lua.LString("HI!") {
		t.Errorf("shout = %v, %v", results, err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Script
	cfg.Timeout = config.Duration(time.Second)
	cfg.CallStackSize = 64

	s := newState(t, OptionsFromConfig(cfg)...)
	if s.timeout != time.Second || s.callStackSize != 64 {
		t.Errorf("timeout=%s callStackSize=%d", s.timeout, s.callStackSize)
	}
}

func TestDocumentCommand(t *testing.T) {
	s := newState(t)
	s.DoString(`
		function shout(text) return string.upper(text) end
		function wrap(text, left, right) return left .. text .. right end
		function inspect(text) end
		function broken(text) return 42 end
	`)

	eng := engine.New(document.New("hello"))

	if _, err := eng.Execute(NewCommand(s, document.LuaBridge{}, "shout", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Execute(NewCommand(s, document.LuaBridge{}, "wrap", "bracket", lua.LString("["), lua.LString("]"))); err != nil {
		t.Fatal(err)
	}
	if got := eng.Current().Text(); got != "[HELLO]" {
		t.Errorf("Current() = %q", got)
	}

	hist := eng.History()
	if hist[1].Description != "lua shout" || hist[2].Description != "bracket" {
		t.Errorf("descriptions = %q, %q", hist[1].Description, hist[2].Description)
	}

	// Returning nothing records an unchanged state
	if _, err := eng.Execute(NewCommand(s, document.LuaBridge{}, "inspect", "")); err != nil {
		t.Fatal(err)
	}
	if eng.Current().Text() != "[HELLO]" || eng.Len() != 3 {
		t.Errorf("inspect changed state: %q len=%d", eng.Current().Text(), eng.Len())
	}

	// A wrong result type fails the command and records nothing
	_, err := eng.Execute(NewCommand(s, document.LuaBridge{}, "broken", ""))
	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Errorf("Execute(broken) = %v", err)
	}
	if eng.Len() != 3 {
		t.Errorf("Len() = %d after failure", eng.Len())
	}

	eng.Undo()
	eng.Undo()
	if got := eng.Current().Text(); got != "HELLO" {
		t.Errorf("after undo = %q", got)
	}
}

func TestCommandContext(t *testing.T) {
	s := newState(t, WithTimeout(0))
	s.DoString(`function spin(text) while true do end end`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := NewCommand(s, document.LuaBridge{}, "spin", "").WithContext(ctx)
	if err := cmd.Apply(document.New("x")); err == nil {
		t.Error("Apply() should stop when the context ends")
	}
}

func TestPortfolioCommand(t *testing.T) {
	s := newState(t)
	s.DoString(`
		-- Reprice every holding by a factor
		function reprice(holdings, factor)
			for sym, h in pairs(holdings) do
				h.price = h.price * factor
			end
			return holdings
		end
		function liquidate(holdings, sym)
			holdings[sym] = nil
			return holdings
		end
		function short(holdings)
			holdings.AAPL.shares = -1
			return holdings
		end
	`)

	eng := engine.New(portfolio.New("p"))
	eng.Execute(portfolio.Buy("AAPL", 10))
	eng.Execute(portfolio.SetPrice("AAPL", 100))
	eng.Execute(portfolio.Buy("MSFT", 5))
	eng.Execute(portfolio.SetPrice("MSFT", 200))

	if _, err := eng.Execute(NewCommand(s, portfolio.LuaBridge{}, "reprice", "", lua.LNumber(1.5))); err != nil {
		t.Fatal(err)
	}
	if got := eng.Current().Value(); got != 10*150+5*300 {
		t.Errorf("Value() = %v", got)
	}

	if _, err := eng.Execute(NewCommand(s, portfolio.LuaBridge{}, "liquidate", "", lua.LString("MSFT"))); err != nil {
		t.Fatal(err)
	}
	if _, ok := eng.Current().Holding("MSFT"); ok {
		t.Error("MSFT should be gone")
	}

	if _, err := eng.Execute(NewCommand(s, portfolio.LuaBridge{}, "short", "")); !errors.Is(err, portfolio.ErrInvalidQuantity) {
		t.Errorf("Execute(short) = %v, want ErrInvalidQuantity", err)
	}
	if eng.Current().Shares("AAPL") != 10 {
		t.Errorf("shares = %d", eng.Current().Shares("AAPL"))
	}
}
