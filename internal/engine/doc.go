// Package engine provides the transactional history engine facade.
//
// The engine package combines a history.Timeline, a history.Executor and an
// event.Bus into one API: commands mutate a tracked value, every committed
// state is snapshotted, undo/redo move a cursor over the snapshots, and
// subscribers are told about every change.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - history: snapshots, the cursor-addressed timeline, commands and the executor
//   - event: the ordered, synchronous notification bus
//
// # Thread Safety
//
// All Engine operations are safe for concurrent use. Mutating operations are
// serialized by one mutex held until their broadcast completes, so
// notifications arrive in commit order. Reads such as Current take only the
// timeline's read lock and may be called from within a subscriber.
// Subscribers must not call mutating methods from Notify; doing so deadlocks.
//
// # Basic Usage
//
//	e := engine.New(document.New(""))
//
//	e.Execute(document.Append("Hello "))
//	e.Execute(document.Append("world!"))
//
//	e.Current().Text() // "Hello world!"
//
//	e.Undo()           // "Hello "
//	e.Redo()           // "Hello world!"
//
// # Notifications
//
//	sub := e.SubscribeFunc(func(c event.Change[*document.Document]) error {
//	    fmt.Println(c.Kind, c.State.Text())
//	    return nil
//	})
//	defer e.Unsubscribe(sub)
//
// # Errors
//
// Undo at the initial state and redo at the newest state fail with
// history.ErrNoHistory. Restore outside [0, Len()] fails with
// history.ErrInvalidIndex. A failing command's error is returned unmodified
// and nothing is recorded. Subscriber failures are returned as an
// *event.BroadcastError after the state change has been committed, unless an
// error handler is configured.
package engine
