package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/chronicle/internal/engine/history"
)

// Bridge converts a command target to and from Lua.
type Bridge[T any] interface {
	// Push returns the Lua value passed to the script for target.
	Push(L *lua.LState, target T) lua.LValue

	// Pull applies the script's result to target. It must leave target
	// unchanged when it returns an error.
	Pull(L *lua.LState, result lua.LValue, target T) error
}

// Command is a history command implemented by a global Lua function.
//
// Apply calls fn(target, args...) and passes its first result to the
// bridge. A function that returns nothing leaves the target unchanged.
type Command[T any] struct {
	state       *State
	bridge      Bridge[T]
	fn          string
	description string
	args        []lua.LValue
	ctx         context.Context
}

var _ history.Command[string] = (*Command[string])(nil)

// NewCommand creates a command calling the global function fn in state.
// Extra args are passed to fn after the target.
func NewCommand[T any](state *State, bridge Bridge[T], fn, description string, args ...lua.LValue) *Command[T] {
	return &Command[T]{
		state:       state,
		bridge:      bridge,
		fn:          fn,
		description: description,
		args:        args,
		ctx:         context.Background(),
	}
}

// WithContext returns a copy of c whose calls are bounded by ctx.
func (c *Command[T]) WithContext(ctx context.Context) *Command[T] {
	cp := *c
	cp.ctx = ctx
	return &cp
}

// Apply runs the script against target.
func (c *Command[T]) Apply(target T) error {
	return c.state.Exec(c.ctx, func(L *lua.LState) error {
		args := make([]lua.LValue, 0, len(c.args)+1)
		args = append(args, c.bridge.Push(L, target))
		args = append(args, c.args...)

		results, err := call(L, c.fn, args...)
		if err != nil {
			return err
		}
		if len(results) == 0 || results[0] == lua.LNil {
			return nil
		}
		if err := c.bridge.Pull(L, results[0], target); err != nil {
			return &ScriptError{Function: c.fn, Err: err}
		}
		return nil
	})
}

// Description returns the command description, or the function name.
func (c *Command[T]) Description() string {
	if c.description != "" {
		return c.description
	}
	return fmt.Sprintf("lua %s", c.fn)
}
