package history

// Executor applies commands to a live target and records the result on a
// timeline.
//
// An Executor is not safe for concurrent use; callers serialize access.
type Executor[T Cloner[T]] struct {
	target   T
	timeline *Timeline[T]
}

// NewExecutor creates an executor whose live target starts as a copy of the
// timeline's active state.
func NewExecutor[T Cloner[T]](timeline *Timeline[T]) *Executor[T] {
	return &Executor[T]{
		target:   timeline.Current(),
		timeline: timeline,
	}
}

// Execute applies cmd to the live target and records the resulting state.
//
// The command runs against a working copy that replaces the live target only
// once Apply succeeds. If Apply fails or panics the live target is left as it
// was, the error is returned unmodified and nothing is recorded.
func (x *Executor[T]) Execute(cmd Command[T]) (T, Position, error) {
	var zero T
	if err := validate(cmd); err != nil {
		return zero, 0, err
	}

	work := x.target.Clone()
	if err := cmd.Apply(work); err != nil {
		return zero, 0, err
	}
	x.target = work

	pos := x.timeline.Commit(x.target, cmd.Description())
	return x.target.Clone(), pos, nil
}

// Checkpoint records the live target as it is, without applying a command.
func (x *Executor[T]) Checkpoint(description string) (T, Position) {
	pos := x.timeline.Commit(x.target, description)
	return x.target.Clone(), pos
}

// Reset replaces the live target with a copy of state.
// Called after the timeline cursor moves so the next command applies to the
// restored state.
func (x *Executor[T]) Reset(state T) {
	x.target = state.Clone()
}

// Timeline returns the timeline the executor records to.
func (x *Executor[T]) Timeline() *Timeline[T] {
	return x.timeline
}
