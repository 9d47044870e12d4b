package app

import "errors"

// Application errors.
var (
	// ErrNoScript indicates a script function was run without a script loaded.
	ErrNoScript = errors.New("no script loaded")

	// ErrShutdown indicates an operation on an application that was shut down.
	ErrShutdown = errors.New("application shut down")
)

// InitError reports which component failed during startup.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
