// Package history provides undo/redo functionality built on snapshots.
//
// The history system records an independent copy of the tracked value after
// every committed mutation. Undo and redo move a cursor over those copies
// rather than replaying commands backwards, so commands do not need to be
// invertible. Key concepts:
//
// # Snapshots
//
// A Snapshot is an immutable deep copy of the tracked value. Tracked types
// provide their own copy through the Cloner interface:
//
//	type Document struct{ text []byte }
//
//	func (d *Document) Clone() *Document {
//	    return &Document{text: bytes.Clone(d.text)}
//	}
//
// # Timeline
//
// A Timeline is a linear, cursor-addressed sequence of snapshots. Position 0
// is the initial value; position n is the n-th recorded snapshot:
//
//	timeline := NewTimeline(doc)
//	timeline.Record(doc)  // position 1
//	timeline.Undo()       // back to position 0
//	timeline.Redo()       // forward to position 1
//	timeline.Restore(0)   // jump anywhere in [0, Len()]
//
// Recording after an undo discards the redo tail. There is no branching.
//
// # Commands
//
// Commands implement Apply and Description. The Executor applies a command
// to its live target and records the result:
//
//	exec := NewExecutor(doc, timeline)
//	exec.Execute(document.Append("Hello "))
//
// Commands may also implement Inverter. The snapshot path never calls it.
//
// # Grouping
//
// Several commands can be committed as one snapshot:
//
//	exec.ExecuteGrouped("Format", cmdA, cmdB)
//
//	exec.Transaction("Bulk edit", func(doc *Document) error {
//	    // ... edits; an error rolls the target back ...
//	    return nil
//	})
package history
