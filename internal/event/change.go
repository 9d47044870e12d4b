package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the operation that produced a change.
type Kind int

const (
	// KindRecord indicates a new state was committed.
	KindRecord Kind = iota

	// KindUndo indicates the cursor moved back one state.
	KindUndo

	// KindRedo indicates the cursor moved forward one state.
	KindRedo

	// KindRestore indicates the cursor jumped to an arbitrary state.
	KindRestore
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	case KindRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Change is the notification delivered to subscribers.
type Change[T any] struct {
	// ID uniquely identifies this notification.
	ID uuid.UUID

	// Kind is the operation that produced the change.
	Kind Kind

	// Position is the timeline position of the new active state.
	Position int

	// Len is the number of recorded states after the change.
	Len int

	// State is the new active state.
	State T

	// SnapshotID identifies the snapshot now at the cursor.
	SnapshotID uuid.UUID

	// Description is the description attached to the active snapshot.
	Description string

	// Timestamp is when the change was broadcast.
	Timestamp time.Time
}

// NewChange creates a change with a fresh ID and timestamp.
func NewChange[T any](kind Kind, position, length int, state T) Change[T] {
	return Change[T]{
		ID:        uuid.New(),
		Kind:      kind,
		Position:  position,
		Len:       length,
		State:     state,
		Timestamp: time.Now(),
	}
}
