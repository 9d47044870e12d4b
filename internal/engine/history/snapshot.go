package history

import (
	"time"

	"github.com/google/uuid"
)

// Cloner is implemented by values that can produce an independent deep copy
// of themselves. The copy must share no mutable substructure with the
// original.
type Cloner[T any] interface {
	Clone() T
}

// Position addresses a state on a timeline. Position 0 is the initial state;
// position n is the n-th recorded snapshot.
type Position int

// Snapshot is an immutable copy of a tracked value at one instant.
type Snapshot[T Cloner[T]] struct {
	id          uuid.UUID
	state       T
	description string
	timestamp   time.Time
}

// NewSnapshot captures a copy of state.
func NewSnapshot[T Cloner[T]](state T, description string) *Snapshot[T] {
	return &Snapshot[T]{
		id:          uuid.New(),
		state:       state.Clone(),
		description: description,
		timestamp:   time.Now(),
	}
}

// ID returns the snapshot's unique identifier.
func (s *Snapshot[T]) ID() uuid.UUID {
	return s.id
}

// State returns a fresh copy of the captured value.
// Callers may mutate the result freely.
func (s *Snapshot[T]) State() T {
	return s.state.Clone()
}

// Description returns the description of the command that produced the
// snapshot. Empty for manual checkpoints.
func (s *Snapshot[T]) Description() string {
	return s.description
}

// Timestamp returns when the snapshot was taken.
func (s *Snapshot[T]) Timestamp() time.Time {
	return s.timestamp
}

// SnapshotInfo provides read-only info about a snapshot.
// Used for displaying history to users.
type SnapshotInfo struct {
	Position    Position
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Active      bool // true for the snapshot at the cursor
}
