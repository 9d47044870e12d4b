package portfolio

import (
	"errors"
	"fmt"
)

// Errors returned by portfolio commands.
var (
	// ErrInsufficientShares indicates a sale of more shares than are held.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidQuantity indicates a trade of zero or fewer shares.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrNotApplied indicates Invert on a command that was never applied.
	ErrNotApplied = errors.New("command not applied")
)

// InsufficientSharesError reports a sale the portfolio cannot cover.
type InsufficientSharesError struct {
	Symbol    string
	Requested int
	Held      int
}

// Error implements the error interface.
func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("sell %d %s: only %d held", e.Requested, e.Symbol, e.Held)
}

// Is allows errors.Is to match InsufficientSharesError with ErrInsufficientShares.
func (e *InsufficientSharesError) Is(target error) bool {
	return target == ErrInsufficientShares
}
