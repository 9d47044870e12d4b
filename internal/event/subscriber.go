package event

import "reflect"

// Subscriber receives change notifications.
type Subscriber[T any] interface {
	// Notify is called once per broadcast. A returned error is collected by
	// the bus; it does not stop delivery to other subscribers.
	Notify(change Change[T]) error
}

// funcSubscriber adapts a function to Subscriber.
// Always used by pointer so each registration has a distinct identity.
type funcSubscriber[T any] struct {
	fn func(Change[T]) error
}

// Notify calls the wrapped function.
func (s *funcSubscriber[T]) Notify(change Change[T]) error {
	return s.fn(change)
}

// isComparable reports whether s can be compared with ==.
func isComparable[T any](s Subscriber[T]) bool {
	return reflect.TypeOf(s).Comparable()
}

// sameSubscriber reports whether a and b are the same registration.
// Subscribers whose dynamic type is not comparable never match.
func sameSubscriber[T any](a, b Subscriber[T]) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
