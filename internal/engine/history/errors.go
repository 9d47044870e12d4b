package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	// ErrNoHistory indicates the cursor is at a boundary of the timeline.
	ErrNoHistory = errors.New("no history")

	// ErrNothingToUndo indicates the cursor is already at the initial state.
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrNoHistory)

	// ErrNothingToRedo indicates the cursor is already at the newest snapshot.
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrNoHistory)

	// ErrInvalidIndex indicates a position outside the timeline.
	ErrInvalidIndex = errors.New("invalid history index")

	// ErrNilCommand is returned when a nil command is executed.
	ErrNilCommand = errors.New("command cannot be nil")

	// ErrNotInvertible is returned when inverting a command that has no inverse.
	ErrNotInvertible = errors.New("command is not invertible")
)

// IndexError reports a position outside [0, Len].
type IndexError struct {
	Position Position
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("history position %d out of range [0, %d]", e.Position, e.Len)
}

// Is allows errors.Is to match IndexError with ErrInvalidIndex.
func (e *IndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}
