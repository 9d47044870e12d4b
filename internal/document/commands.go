package document

import (
	"fmt"

	"github.com/dshills/chronicle/internal/engine/history"
)

// EditCommand is an invertible command that changes a Document.
// It records the Edit it made so Invert can revert it.
type EditCommand struct {
	description string
	plan        func(d *Document) (Edit, error)
	applied     *Edit
}

var (
	_ history.Command[*Document]  = (*EditCommand)(nil)
	_ history.Inverter[*Document] = (*EditCommand)(nil)
)

// Append adds text at the end of the document.
func Append(text string) *EditCommand {
	return &EditCommand{
		description: fmt.Sprintf("append %q", text),
		plan: func(d *Document) (Edit, error) {
			end := d.Len()
			return Edit{Range: Range{Start: end, End: end}, NewText: text}, nil
		},
	}
}

// Insert adds text at offset.
func Insert(offset ByteOffset, text string) *EditCommand {
	return &EditCommand{
		description: fmt.Sprintf("insert %q at %d", text, offset),
		plan: func(d *Document) (Edit, error) {
			r := Range{Start: offset, End: offset}
			if err := d.check(r); err != nil {
				return Edit{}, err
			}
			return Edit{Range: r, NewText: text}, nil
		},
	}
}

// Delete removes the text in r.
func Delete(r Range) *EditCommand {
	return &EditCommand{
		description: fmt.Sprintf("delete [%d, %d)", r.Start, r.End),
		plan: func(d *Document) (Edit, error) {
			old, err := d.TextRange(r)
			if err != nil {
				return Edit{}, err
			}
			return Edit{Range: r, OldText: old}, nil
		},
	}
}

// Replace swaps the text in r for text.
func Replace(r Range, text string) *EditCommand {
	return &EditCommand{
		description: fmt.Sprintf("replace [%d, %d) with %q", r.Start, r.End, text),
		plan: func(d *Document) (Edit, error) {
			old, err := d.TextRange(r)
			if err != nil {
				return Edit{}, err
			}
			return Edit{Range: r, OldText: old, NewText: text}, nil
		},
	}
}

// ApplyEdit performs a prepared edit. It fails with ErrConflict if the
// text under e.Range is not e.OldText.
func ApplyEdit(e Edit) *EditCommand {
	return &EditCommand{
		description: fmt.Sprintf("edit [%d, %d)", e.Range.Start, e.Range.End),
		plan: func(*Document) (Edit, error) {
			return e, nil
		},
	}
}

// Apply performs the edit. On failure d is unchanged.
func (c *EditCommand) Apply(d *Document) error {
	e, err := c.plan(d)
	if err != nil {
		return err
	}
	if err := d.apply(e); err != nil {
		return err
	}
	c.applied = &e
	return nil
}

// Invert reverts the most recent Apply.
func (c *EditCommand) Invert(d *Document) error {
	if c.applied == nil {
		return ErrNotApplied
	}
	if err := d.apply(c.applied.Invert()); err != nil {
		return err
	}
	c.applied = nil
	return nil
}

// Description returns a human-readable description of the edit.
func (c *EditCommand) Description() string {
	return c.description
}

// Edit returns the edit made by the most recent Apply.
func (c *EditCommand) Edit() (Edit, bool) {
	if c.applied == nil {
		return Edit{}, false
	}
	return *c.applied, true
}
