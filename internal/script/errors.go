package script

import (
	"errors"
	"fmt"
)

// Errors returned by script operations.
var (
	// ErrStateClosed is returned when operating on a closed State.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrFunctionNotFound is returned when the called global is not a function.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrBadResult is returned when a script returns a value the bridge
	// cannot apply.
	ErrBadResult = errors.New("unexpected script result")
)

// ScriptError wraps a failure raised while running a Lua function.
type ScriptError struct {
	Function string
	Err      error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Function, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
