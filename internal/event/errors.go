package event

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the notification bus.
var (
	// ErrNilSubscriber is returned when a nil subscriber is provided.
	ErrNilSubscriber = errors.New("subscriber cannot be nil")

	// ErrUncomparableSubscriber is returned when a subscriber's dynamic type
	// cannot be compared with ==, so it could never be unsubscribed. Use a
	// pointer receiver or SubscribeFunc.
	ErrUncomparableSubscriber = errors.New("subscriber type is not comparable")

	// ErrSubscriberPanic is matched by errors from subscribers that panicked.
	ErrSubscriberPanic = errors.New("subscriber panicked")
)

// SubscriberError wraps an error returned by a subscriber.
type SubscriberError struct {
	// Index is the subscriber's position in the broadcast round.
	Index int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Index is the subscriber's position in the broadcast round.
	Index int

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("subscriber %d panicked: %v", e.Index, e.Value)
}

// Is allows errors.Is to match PanicError with ErrSubscriberPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrSubscriberPanic
}

// BroadcastError aggregates the subscriber failures of one broadcast round.
type BroadcastError struct {
	// Kind is the kind of change that was being broadcast.
	Kind Kind

	// Errors holds one *SubscriberError or *PanicError per failed subscriber,
	// in delivery order.
	Errors []error
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("broadcast %s: %d subscriber(s) failed: %s", e.Kind, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the collected errors for errors.Is and errors.As.
func (e *BroadcastError) Unwrap() []error {
	return e.Errors
}
