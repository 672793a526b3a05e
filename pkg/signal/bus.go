// Package signal provides a small broadcast bus shared between sibling views.
//
// A Bus is created by the view that owns both parties (the filter bar and the
// asset detail view) and is closed together with it. Publish delivers the
// value synchronously, in publish order, to every subscriber registered at
// the time of the call. Values published after Close are dropped.
package signal

import "sync"

// Subscription is released with Unsubscribe. Calling it more than once is safe.
type Subscription interface {
	Unsubscribe()
}

// Bus broadcasts values of type T to subscribers.
type Bus[T any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]func(T)
	order  []int
	closed bool
	last   *T
}

// New returns an open bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn for future values.
func (b *Bus[T]) Subscribe(fn func(T)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || fn == nil {
		return noopSubscription{}
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	b.order = append(b.order, id)
	return &subscription{release: func() { b.remove(id) }}
}

// Publish sends v to all current subscribers.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.last = &v
	fns := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Last returns the most recently published value.
func (b *Bus[T]) Last() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		var zero T
		return zero, false
	}
	return *b.last, true
}

// Len reports the number of active subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Close drops all subscribers and rejects further publishes.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]func(T))
	b.order = nil
}

func (b *Bus[T]) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return
	}
	delete(b.subs, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

type subscription struct {
	once    sync.Once
	release func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.release)
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
