package engine

import (
	"github.com/dshills/chronicle/internal/engine/history"
	"github.com/dshills/chronicle/internal/event"
)

// Errors returned by engine operations, re-exported for convenience.
var (
	// ErrNoHistory indicates undo at the initial state or redo at the newest state.
	ErrNoHistory = history.ErrNoHistory

	// ErrNothingToUndo indicates the cursor is at the initial state.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the cursor is at the newest state.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrInvalidIndex indicates a restore position outside the timeline.
	ErrInvalidIndex = history.ErrInvalidIndex

	// ErrNilCommand indicates a nil command was executed.
	ErrNilCommand = history.ErrNilCommand

	// ErrNilSubscriber indicates a nil subscriber was registered.
	ErrNilSubscriber = event.ErrNilSubscriber

	// ErrUncomparableSubscriber indicates a subscriber that could never be
	// unsubscribed because its type cannot be compared.
	ErrUncomparableSubscriber = event.ErrUncomparableSubscriber
)
