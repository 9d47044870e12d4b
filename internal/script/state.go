package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/chronicle/internal/config"
)

// DefaultTimeout bounds a single call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua interpreter.
// The mutex serializes every use of the underlying LState.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	timeout       time.Duration
	callStackSize int

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the timeout for each call. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithCallStackSize caps Lua call depth. Zero uses the gopher-lua default.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n >= 0 {
			s.callStackSize = n
		}
	}
}

// OptionsFromConfig translates cfg into state options.
func OptionsFromConfig(cfg config.Script) []StateOption {
	return []StateOption{
		WithTimeout(cfg.Timeout.Std()),
		WithCallStackSize(cfg.CallStackSize),
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true, // We'll open selectively
		CallStackSize: s.callStackSize,
	})
	openSafeLibraries(s.L)
	installSandbox(s.L)

	return s, nil
}

// DoString executes a Lua chunk, typically to define functions.
func (s *State) DoString(code string) error {
	return s.Exec(context.Background(), func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.Exec(context.Background(), func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// Exec runs fn with exclusive access to the interpreter. ctx and the
// configured timeout bound any Lua code fn runs.
func (s *State) Exec(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
	}()

	return fn(s.L)
}

// Call calls the global function fn and returns its results.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.Exec(ctx, func(L *lua.LState) error {
		var err error
		results, err = call(L, fn, args...)
		return err
	})
	return results, err
}

// call invokes a global function on L. The caller holds the state lock.
func call(L *lua.LState, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	fnVal := L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %q (got %s)", ErrFunctionNotFound, fn, fnVal.Type())
	}

	// Record stack top before pushing anything
	stackTop := L.GetTop()

	L.Push(fnVal)
	for _, arg := range args {
		L.Push(arg)
	}
	if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
		L.SetTop(stackTop)
		return nil, &ScriptError{Function: fn, Err: err}
	}

	// Collect return values (only the new values added after the call)
	nRet := L.GetTop() - stackTop
	results := make([]lua.LValue, nRet)
	for i := 0; i < nRet; i++ {
		results[i] = L.Get(stackTop + i + 1)
	}
	L.SetTop(stackTop)

	return results, nil
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
