package history

import (
	"sync"
)

// Status describes where the cursor sits on the timeline.
type Status int

const (
	// StatusClean means the cursor is at the initial state.
	StatusClean Status = iota

	// StatusDirty means there are snapshots both behind and ahead of the cursor.
	StatusDirty

	// StatusAtHead means the cursor is at the newest snapshot.
	StatusAtHead
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusDirty:
		return "dirty"
	case StatusAtHead:
		return "at-head"
	default:
		return "unknown"
	}
}

// Timeline manages a linear history of snapshots addressed by a cursor.
//
// The snapshot at the cursor (or the initial snapshot when the cursor is 0)
// is always the active state.
type Timeline[T Cloner[T]] struct {
	mu sync.RWMutex

	initial   *Snapshot[T]
	snapshots []*Snapshot[T]
	cursor    int

	// Configuration
	maxEntries int // 0 means unbounded
}

// TimelineOption configures a Timeline.
type TimelineOption func(*timelineConfig)

type timelineConfig struct {
	maxEntries int
}

// WithMaxEntries bounds the number of recorded snapshots. When the bound is
// exceeded the oldest snapshots are folded into the initial state.
// Zero or negative means unbounded.
func WithMaxEntries(max int) TimelineOption {
	return func(c *timelineConfig) {
		if max > 0 {
			c.maxEntries = max
		}
	}
}

// NewTimeline creates a timeline whose initial state is a copy of initial.
func NewTimeline[T Cloner[T]](initial T, opts ...TimelineOption) *Timeline[T] {
	var cfg timelineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Timeline[T]{
		initial:    NewSnapshot(initial, ""),
		maxEntries: cfg.maxEntries,
	}
}

// Record captures a copy of state, discards any snapshots after the cursor,
// appends the new snapshot and moves the cursor onto it.
// It returns the position of the new snapshot.
func (t *Timeline[T]) Record(state T) Position {
	return t.Commit(state, "")
}

// Commit is Record with a description attached to the snapshot.
func (t *Timeline[T]) Commit(state T, description string) Position {
	snap := NewSnapshot(state, description)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Discard the redo tail
	for i := t.cursor; i < len(t.snapshots); i++ {
		t.snapshots[i] = nil
	}
	t.snapshots = append(t.snapshots[:t.cursor], snap)
	t.cursor = len(t.snapshots)

	t.trimLocked()
	return Position(t.cursor)
}

// Undo moves the cursor back one position and returns the active state.
func (t *Timeline[T]) Undo() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor == 0 {
		var zero T
		return zero, ErrNothingToUndo
	}
	t.cursor--
	return t.activeLocked().State(), nil
}

// Redo moves the cursor forward one position and returns the active state.
func (t *Timeline[T]) Redo() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor == len(t.snapshots) {
		var zero T
		return zero, ErrNothingToRedo
	}
	t.cursor++
	return t.activeLocked().State(), nil
}

// Restore moves the cursor to pos and returns the active state.
// Valid positions are 0 through Len() inclusive.
func (t *Timeline[T]) Restore(pos Position) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pos < 0 || int(pos) > len(t.snapshots) {
		var zero T
		return zero, &IndexError{Position: pos, Len: len(t.snapshots)}
	}
	t.cursor = int(pos)
	return t.activeLocked().State(), nil
}

// Current returns a copy of the active state without moving the cursor.
func (t *Timeline[T]) Current() T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeLocked().State()
}

// Active returns the active snapshot.
func (t *Timeline[T]) Active() *Snapshot[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeLocked()
}

// Snapshot returns the snapshot at pos.
func (t *Timeline[T]) Snapshot(pos Position) (*Snapshot[T], error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if pos < 0 || int(pos) > len(t.snapshots) {
		return nil, &IndexError{Position: pos, Len: len(t.snapshots)}
	}
	return t.atLocked(int(pos)), nil
}

// Cursor returns the position of the active state.
func (t *Timeline[T]) Cursor() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Position(t.cursor)
}

// Len returns the number of recorded snapshots, excluding the initial state.
func (t *Timeline[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.snapshots)
}

// CanUndo returns true if undo is available.
func (t *Timeline[T]) CanUndo() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor > 0
}

// CanRedo returns true if redo is available.
func (t *Timeline[T]) CanRedo() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor < len(t.snapshots)
}

// Status reports the cursor's place on the timeline.
func (t *Timeline[T]) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch {
	case t.cursor == 0:
		return StatusClean
	case t.cursor == len(t.snapshots):
		return StatusAtHead
	default:
		return StatusDirty
	}
}

// Entries returns info about every state on the timeline, starting with the
// initial state at position 0.
func (t *Timeline[T]) Entries() []SnapshotInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]SnapshotInfo, len(t.snapshots)+1)
	for i := range result {
		snap := t.atLocked(i)
		result[i] = SnapshotInfo{
			Position:    Position(i),
			ID:          snap.ID(),
			Description: snap.Description(),
			Timestamp:   snap.Timestamp(),
			Active:      i == t.cursor,
		}
	}
	return result
}

// Clear discards all history and makes a copy of initial the new initial state.
func (t *Timeline[T]) Clear(initial T) {
	snap := NewSnapshot(initial, "")

	t.mu.Lock()
	defer t.mu.Unlock()

	t.initial = snap
	t.snapshots = nil
	t.cursor = 0
}

// SetMaxEntries changes the bound on recorded snapshots.
// If the timeline is larger, it is trimmed immediately.
func (t *Timeline[T]) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.maxEntries = max
	t.trimLocked()
}

// MaxEntries returns the bound on recorded snapshots (0 means unbounded).
func (t *Timeline[T]) MaxEntries() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxEntries
}

// activeLocked returns the snapshot at the cursor.
func (t *Timeline[T]) activeLocked() *Snapshot[T] {
	return t.atLocked(t.cursor)
}

// atLocked returns the snapshot at position i.
func (t *Timeline[T]) atLocked(i int) *Snapshot[T] {
	if i == 0 {
		return t.initial
	}
	return t.snapshots[i-1]
}

// trimLocked enforces maxEntries. Old snapshots behind the cursor are folded
// into the initial state first; the active state is never dropped, so any
// remaining excess is cut from the redo tail.
func (t *Timeline[T]) trimLocked() {
	if t.maxEntries <= 0 || len(t.snapshots) <= t.maxEntries {
		return
	}

	excess := len(t.snapshots) - t.maxEntries
	fold := min(excess, t.cursor)
	if fold > 0 {
		t.initial = t.snapshots[fold-1]
		t.snapshots = append([]*Snapshot[T](nil), t.snapshots[fold:]...)
		t.cursor -= fold
	}

	if len(t.snapshots) > t.maxEntries {
		t.snapshots = t.snapshots[:t.maxEntries]
	}
}
