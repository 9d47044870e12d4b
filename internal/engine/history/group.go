package history

// ExecuteGrouped executes multiple commands as a single snapshot.
func (x *Executor[T]) ExecuteGrouped(name string, cmds ...Command[T]) (T, Position, error) {
	if len(cmds) == 0 {
		return x.target.Clone(), x.timeline.Cursor(), nil
	}

	if len(cmds) == 1 {
		// Single command doesn't need grouping
		return x.Execute(cmds[0])
	}

	return x.Execute(NewCompoundCommand(name, cmds...))
}

// Transaction runs fn against the live target and records the result as a
// single snapshot named name.
// fn works on a copy of the live target. If fn returns an error or panics,
// the live target is unchanged and nothing is recorded.
func (x *Executor[T]) Transaction(name string, fn func(target T) error) (T, Position, error) {
	work := x.target.Clone()
	if err := fn(work); err != nil {
		var zero T
		return zero, 0, err
	}
	x.target = work

	pos := x.timeline.Commit(x.target, name)
	return x.target.Clone(), pos, nil
}

// Checkpoint marks a point in history that can be returned to.
type Checkpoint struct {
	position Position
}

// Position returns the timeline position the checkpoint refers to.
func (c Checkpoint) Position() Position {
	return c.position
}

// CreateCheckpoint creates a checkpoint at the current cursor.
func (t *Timeline[T]) CreateCheckpoint() Checkpoint {
	return Checkpoint{position: t.Cursor()}
}

// RestoreCheckpoint moves the cursor back to cp.
// It fails with ErrInvalidIndex if the checkpoint's position was discarded.
func (t *Timeline[T]) RestoreCheckpoint(cp Checkpoint) (T, error) {
	return t.Restore(cp.position)
}
