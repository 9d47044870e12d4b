// Package event provides synchronous change notification for history engines.
//
// A Bus holds an ordered set of subscribers and broadcasts a Change to each
// of them, in registration order, after the engine has committed or restored
// a state.
//
// # Basic Usage
//
//	bus := event.NewBus[*Document]()
//
//	// Subscribe a value implementing Subscriber
//	bus.Subscribe(renderer)
//
//	// Or subscribe a function and keep the handle for later
//	sub := bus.SubscribeFunc(func(c event.Change[*Document]) error {
//	    fmt.Println(c.Kind, c.Position)
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
//
// # Delivery
//
// Broadcast is synchronous. The subscriber list is copied at the start of
// each broadcast, so a subscriber may unsubscribe itself (or another) from
// within Notify without disturbing the current round.
//
// A subscriber that returns an error or panics does not stop delivery to the
// rest. Failures are collected into a *BroadcastError which Broadcast returns
// after the round, or hands to the ErrorHandler configured with
// WithErrorHandler.
//
// # State Copies
//
// When the state type implements Clone() T, each subscriber receives its own
// copy, so one subscriber cannot alter what the next one sees.
package event
