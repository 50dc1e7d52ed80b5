// Package events implements per-tick event queues with single-pass dispatch.
// Handlers may send further events, but those wait for the next drain.
package events

// Queue buffers events of one type until they are drained.
type Queue[T any] struct {
	items []T
}

// Send appends an event.
func (q *Queue[T]) Send(v T) {
	q.items = append(q.items, v)
}

// Pending reports whether any events are waiting.
func (q *Queue[T]) Pending() bool {
	return len(q.items) > 0
}

// Len returns the number of waiting events.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Drain returns the waiting events and empties the queue.
func (q *Queue[T]) Drain() []T {
	out := q.items
	q.items = nil
	return out
}

// Dispatch drains q once and hands every event to the handler registered
// for its key. Events sent by handlers are not re-dispatched. Returns the
// number of events that found a handler.
func Dispatch[T any, K comparable](q *Queue[T], key func(T) K, handlers map[K]func(T)) int {
	handled := 0
	for _, ev := range q.Drain() {
		h, ok := handlers[key(ev)]
		if !ok {
			continue
		}
		h(ev)
		handled++
	}
	return handled
}

// Peek returns a copy of the waiting events without draining them.
func (q *Queue[T]) Peek() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
