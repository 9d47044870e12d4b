package event

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
)

// Bus delivers changes to an ordered set of subscribers.
// It is safe for concurrent use.
type Bus[T any] struct {
	mu          sync.RWMutex
	subscribers []Subscriber[T]

	// Configuration
	config busConfig

	// Stats
	broadcasts atomic.Uint64
	delivered  atomic.Uint64
	failed     atomic.Uint64
	panicked   atomic.Uint64
}

// NewBus creates a new bus with the given options.
func NewBus[T any](opts ...BusOption) *Bus[T] {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus[T]{config: config}
}

// Subscribe adds s to the end of the delivery order.
// Subscribing a subscriber that is already registered is a no-op.
// It fails with ErrUncomparableSubscriber if s cannot be compared with ==.
func (b *Bus[T]) Subscribe(s Subscriber[T]) error {
	if s == nil {
		return ErrNilSubscriber
	}
	if !isComparable(s) {
		return ErrUncomparableSubscriber
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexLocked(s) >= 0 {
		return nil
	}
	b.subscribers = append(b.subscribers, s)
	return nil
}

// SubscribeFunc registers fn and returns the handle to unsubscribe it with.
// Each call creates a new registration.
func (b *Bus[T]) SubscribeFunc(fn func(change Change[T]) error) Subscriber[T] {
	s := &funcSubscriber[T]{fn: fn}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, s)
	b.mu.Unlock()

	return s
}

// Unsubscribe removes s. Removing a subscriber that is not registered is a
// no-op. Safe to call from within Notify.
func (b *Bus[T]) Unsubscribe(s Subscriber[T]) {
	if s == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.indexLocked(s); i >= 0 {
		b.subscribers = slices.Delete(b.subscribers, i, i+1)
	}
}

// Len returns the number of registered subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Clear removes all subscribers.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = nil
}

// SetErrorHandler replaces the error handler. A nil handler makes Broadcast
// return failures to the caller.
func (b *Bus[T]) SetErrorHandler(h ErrorHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.errorHandler = h
}

// Broadcast delivers change to every subscriber registered when the call
// starts, in registration order, synchronously.
//
// Failures do not interrupt the round. They are returned as a
// *BroadcastError, or passed to the configured ErrorHandler, in which case
// Broadcast returns nil.
func (b *Bus[T]) Broadcast(change Change[T]) error {
	b.mu.RLock()
	subs := slices.Clone(b.subscribers)
	handler := b.config.errorHandler
	b.mu.RUnlock()

	b.broadcasts.Add(1)

	var errs []error
	for i, s := range subs {
		if err := b.deliver(i, s, change); err != nil {
			b.config.logger.Debug("subscriber failed",
				slog.String("kind", change.Kind.String()),
				slog.Int("subscriber", i),
				slog.Any("error", err),
			)
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	berr := &BroadcastError{Kind: change.Kind, Errors: errs}
	if handler != nil {
		handler(berr)
		return nil
	}
	return berr
}

// deliver calls one subscriber with panic recovery.
func (b *Bus[T]) deliver(index int, s Subscriber[T], change Change[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			err = &PanicError{
				Index: index,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	// Give each subscriber its own copy when the state can make one
	if c, ok := any(change.State).(interface{ Clone() T }); ok {
		change.State = c.Clone()
	}

	if notifyErr := s.Notify(change); notifyErr != nil {
		b.failed.Add(1)
		return &SubscriberError{Index: index, Err: notifyErr}
	}
	b.delivered.Add(1)
	return nil
}

// indexLocked returns the position of s, or -1.
func (b *Bus[T]) indexLocked(s Subscriber[T]) int {
	return slices.IndexFunc(b.subscribers, func(other Subscriber[T]) bool {
		return sameSubscriber(other, s)
	})
}

// Stats contains bus statistics.
type Stats struct {
	// Broadcasts is the number of Broadcast calls.
	Broadcasts uint64

	// Delivered is the number of successful Notify calls.
	Delivered uint64

	// Failed is the number of Notify calls that returned an error.
	Failed uint64

	// Panicked is the number of Notify calls that panicked.
	Panicked uint64
}

// Stats returns delivery statistics.
func (b *Bus[T]) Stats() Stats {
	return Stats{
		Broadcasts: b.broadcasts.Load(),
		Delivered:  b.delivered.Load(),
		Failed:     b.failed.Load(),
		Panicked:   b.panicked.Load(),
	}
}
