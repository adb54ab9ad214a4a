package lesson

import "sync"

// Listener receives events emitted on a Bus.
type Listener func(Event)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus is a synchronous in-process publish/subscribe channel for lesson
// events. It holds no domain state.
//
// Emit dispatches to a snapshot of the subscribers taken when Emit is
// called. A listener removed during dispatch still receives the event in
// flight but nothing emitted afterwards; a listener added during dispatch
// first sees the next event.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers listener and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(listener Listener) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, listener: listener})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit invokes every current subscriber with ev, in subscription order,
// before returning.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.listener(ev)
	}
}

// Len returns the number of current subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
