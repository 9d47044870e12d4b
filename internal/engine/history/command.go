package history

import (
	"errors"
	"fmt"
)

// Command represents a mutation that can be applied to a target.
type Command[T any] interface {
	// Apply performs the command and returns an error if it fails.
	// A failing command is responsible for leaving target unchanged.
	Apply(target T) error

	// Description returns a human-readable description of the command.
	Description() string
}

// Inverter is implemented by commands that can reverse their own effect.
// Snapshot-based undo never calls Invert; it exists for callers that replay
// commands backwards.
type Inverter[T any] interface {
	Invert(target T) error
}

// Invertible returns true if cmd implements Inverter.
func Invertible[T any](cmd Command[T]) bool {
	_, ok := cmd.(Inverter[T])
	return ok
}

// funcCommand adapts a plain function to Command.
type funcCommand[T any] struct {
	name string
	fn   func(T) error
}

// CommandFunc returns a Command that calls fn.
func CommandFunc[T any](name string, fn func(target T) error) Command[T] {
	return &funcCommand[T]{name: name, fn: fn}
}

// Apply calls the wrapped function.
func (c *funcCommand[T]) Apply(target T) error {
	return c.fn(target)
}

// Description returns the command's name.
func (c *funcCommand[T]) Description() string {
	return c.name
}

// CompoundCommand groups multiple commands as one unit.
type CompoundCommand[T any] struct {
	Name     string
	Commands []Command[T]
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand[T any](name string, commands ...Command[T]) *CompoundCommand[T] {
	return &CompoundCommand[T]{
		Name:     name,
		Commands: commands,
	}
}

// Apply runs all commands in order.
// If a step fails, the steps already applied are inverted where possible.
func (c *CompoundCommand[T]) Apply(target T) error {
	for i, cmd := range c.Commands {
		if err := cmd.Apply(target); err != nil {
			// On error, try to undo what we've done
			for j := i - 1; j >= 0; j-- {
				if inv, ok := c.Commands[j].(Inverter[T]); ok {
					_ = inv.Invert(target)
				}
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Invert reverses all commands in reverse order.
// It fails with ErrNotInvertible if any step has no inverse.
func (c *CompoundCommand[T]) Invert(target T) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		inv, ok := c.Commands[i].(Inverter[T])
		if !ok {
			return fmt.Errorf("invert compound command '%s' step %d: %w", c.Name, i, ErrNotInvertible)
		}
		if err := inv.Invert(target); err != nil {
			return fmt.Errorf("invert compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand[T]) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand[T]) Add(cmd Command[T]) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand[T]) IsEmpty() bool {
	return len(c.Commands) == 0
}

// validate rejects nil commands, including nil steps of a compound.
func validate[T any](cmd Command[T]) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if cc, ok := cmd.(*CompoundCommand[T]); ok {
		if cc == nil {
			return ErrNilCommand
		}
		var errs []error
		for i, step := range cc.Commands {
			if step == nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, ErrNilCommand))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}
