package engine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dshills/chronicle/internal/engine/history"
	"github.com/dshills/chronicle/internal/event"
)

// Re-export commonly used types for convenience.
type (
	// Position addresses a state on the timeline.
	Position = history.Position

	// Status describes where the cursor sits on the timeline.
	Status = history.Status

	// SnapshotInfo describes one state on the timeline.
	SnapshotInfo = history.SnapshotInfo
)

// Re-export constants.
const (
	StatusClean  = history.StatusClean
	StatusDirty  = history.StatusDirty
	StatusAtHead = history.StatusAtHead
)

// Engine tracks the history of a single value of type T.
type Engine[T history.Cloner[T]] struct {
	// mu serializes mutating operations, including their broadcast.
	mu sync.Mutex

	timeline *history.Timeline[T]
	executor *history.Executor[T]
	bus      *event.Bus[T]
	logger   *slog.Logger
}

// New creates an engine whose initial state is a copy of initial.
func New[T history.Cloner[T]](initial T, opts ...Option) *Engine[T] {
	o := options{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	timeline := history.NewTimeline(initial, history.WithMaxEntries(o.maxEntries))

	return &Engine[T]{
		timeline: timeline,
		executor: history.NewExecutor(timeline),
		bus: event.NewBus[T](
			event.WithErrorHandler(o.errorHandler),
			event.WithLogger(o.logger),
		),
		logger: o.logger,
	}
}

// Execute applies cmd to the tracked value, records the result and notifies
// subscribers. It returns the newly recorded state.
//
// If the command fails or panics, nothing is recorded and no notification is
// sent; a returned error is passed back unmodified. The command runs against a
// working copy, so a partial mutation never reaches the next command. Effects
// a failing command had outside its target are its own concern.
func (e *Engine[T]) Execute(cmd history.Command[T]) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, pos, err := e.executor.Execute(cmd)
	if err != nil {
		if errors.Is(err, history.ErrNilCommand) {
			return state, err
		}
		e.logger.Warn("command failed",
			slog.String("command", cmd.Description()),
			slog.Any("error", err),
		)
		return state, err
	}

	e.logger.Debug("command executed",
		slog.String("command", cmd.Description()),
		slog.Int("position", int(pos)),
	)
	return state, e.broadcastLocked(event.KindRecord, state)
}

// ExecuteGrouped applies cmds as one unit and records a single snapshot
// described by name.
func (e *Engine[T]) ExecuteGrouped(name string, cmds ...history.Command[T]) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, pos, err := e.executor.ExecuteGrouped(name, cmds...)
	if err != nil {
		e.logger.Warn("grouped command failed",
			slog.String("group", name),
			slog.Any("error", err),
		)
		return state, err
	}
	if len(cmds) == 0 {
		// Nothing was recorded
		return state, nil
	}

	e.logger.Debug("group executed",
		slog.String("group", name),
		slog.Int("commands", len(cmds)),
		slog.Int("position", int(pos)),
	)
	return state, e.broadcastLocked(event.KindRecord, state)
}

// Transaction runs fn against the tracked value and records the result as a
// single snapshot. If fn fails, the tracked value is rolled back to the
// active state and nothing is recorded.
func (e *Engine[T]) Transaction(name string, fn func(target T) error) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, pos, err := e.executor.Transaction(name, fn)
	if err != nil {
		e.logger.Warn("transaction rolled back",
			slog.String("transaction", name),
			slog.Any("error", err),
		)
		return state, err
	}

	e.logger.Debug("transaction committed",
		slog.String("transaction", name),
		slog.Int("position", int(pos)),
	)
	return state, e.broadcastLocked(event.KindRecord, state)
}

// Record commits a copy of state directly, without a command, and notifies
// subscribers. It returns the position of the new snapshot. The returned
// error only reports subscriber failures; the state is recorded regardless.
func (e *Engine[T]) Record(state T) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.timeline.Record(state)
	e.executor.Reset(state)

	e.logger.Debug("state recorded", slog.Int("position", int(pos)))
	return pos, e.broadcastLocked(event.KindRecord, state)
}

// Checkpoint records the tracked value as it currently is, under the given
// description, and notifies subscribers.
func (e *Engine[T]) Checkpoint(description string) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, pos := e.executor.Checkpoint(description)

	e.logger.Debug("checkpoint recorded",
		slog.String("description", description),
		slog.Int("position", int(pos)),
	)
	return pos, e.broadcastLocked(event.KindRecord, state)
}

// Undo moves back one state and notifies subscribers.
// It fails with ErrNoHistory at the initial state.
func (e *Engine[T]) Undo() (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.timeline.Undo()
	if err != nil {
		return state, err
	}
	return e.movedLocked(event.KindUndo, state)
}

// Redo moves forward one state and notifies subscribers.
// It fails with ErrNoHistory at the newest state.
func (e *Engine[T]) Redo() (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.timeline.Redo()
	if err != nil {
		return state, err
	}
	return e.movedLocked(event.KindRedo, state)
}

// Restore jumps to pos and notifies subscribers.
// It fails with ErrInvalidIndex outside [0, Len()].
func (e *Engine[T]) Restore(pos Position) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.timeline.Restore(pos)
	if err != nil {
		return state, err
	}
	return e.movedLocked(event.KindRestore, state)
}

// Current returns a copy of the active state.
func (e *Engine[T]) Current() T {
	return e.timeline.Current()
}

// Subscribe registers s for change notifications. Registering the same
// subscriber twice is a no-op.
func (e *Engine[T]) Subscribe(s event.Subscriber[T]) error {
	return e.bus.Subscribe(s)
}

// SubscribeFunc registers fn and returns the handle to unsubscribe it with.
func (e *Engine[T]) SubscribeFunc(fn func(change event.Change[T]) error) event.Subscriber[T] {
	return e.bus.SubscribeFunc(fn)
}

// Unsubscribe removes s. Removing an unknown subscriber is a no-op.
func (e *Engine[T]) Unsubscribe(s event.Subscriber[T]) {
	e.bus.Unsubscribe(s)
}

// CanUndo returns true if undo is available.
func (e *Engine[T]) CanUndo() bool {
	return e.timeline.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine[T]) CanRedo() bool {
	return e.timeline.CanRedo()
}

// Cursor returns the position of the active state.
func (e *Engine[T]) Cursor() Position {
	return e.timeline.Cursor()
}

// Len returns the number of recorded snapshots.
func (e *Engine[T]) Len() int {
	return e.timeline.Len()
}

// Status reports whether the engine is clean, dirty or at head.
func (e *Engine[T]) Status() Status {
	return e.timeline.Status()
}

// History returns info about every state on the timeline.
func (e *Engine[T]) History() []SnapshotInfo {
	return e.timeline.Entries()
}

// Stats returns notification statistics.
func (e *Engine[T]) Stats() event.Stats {
	return e.bus.Stats()
}

// SetMaxEntries changes the bound on recorded snapshots (0 means unbounded).
func (e *Engine[T]) SetMaxEntries(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeline.SetMaxEntries(max)
}

// SetErrorHandler replaces the subscriber error handler. A nil handler makes
// operations return subscriber failures.
func (e *Engine[T]) SetErrorHandler(h event.ErrorHandler) {
	e.bus.SetErrorHandler(h)
}

// movedLocked finishes undo, redo and restore: the executor's live value
// follows the cursor, then subscribers are notified.
func (e *Engine[T]) movedLocked(kind event.Kind, state T) (T, error) {
	e.executor.Reset(state)

	e.logger.Debug("cursor moved",
		slog.String("kind", kind.String()),
		slog.Int("position", int(e.timeline.Cursor())),
	)
	return state, e.broadcastLocked(kind, state)
}

// broadcastLocked notifies subscribers of the active state. The timeline has
// already been updated, so Current() inside a subscriber matches state.
func (e *Engine[T]) broadcastLocked(kind event.Kind, state T) error {
	active := e.timeline.Active()

	change := event.NewChange(kind, int(e.timeline.Cursor()), e.timeline.Len(), state.Clone())
	change.SnapshotID = active.ID()
	change.Description = active.Description()

	if err := e.bus.Broadcast(change); err != nil {
		e.logger.Warn("subscriber notification failed",
			slog.String("kind", kind.String()),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
