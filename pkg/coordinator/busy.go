package coordinator

import "sync"

// Busy is an observable in-flight flag. At most one operation holds it at a
// time; TryStart fails while it is held. The zero value is ready to use.
type Busy struct {
	mu   sync.Mutex
	busy bool
	subs map[int]func(bool)
	next int
}

// Busy reports whether an operation is in flight.
func (b *Busy) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// TryStart raises the flag. It returns false, leaving the flag untouched,
// when an operation is already in flight.
func (b *Busy) TryStart() bool {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return false
	}
	b.busy = true
	subs := b.snapshot()
	b.mu.Unlock()

	for _, fn := range subs {
		fn(true)
	}
	return true
}

// Done lowers the flag.
func (b *Busy) Done() {
	b.mu.Lock()
	if !b.busy {
		b.mu.Unlock()
		return
	}
	b.busy = false
	subs := b.snapshot()
	b.mu.Unlock()

	for _, fn := range subs {
		fn(false)
	}
}

// Subscribe calls fn with every change of the flag, in subscription order.
// Callbacks run synchronously on the goroutine that changed the flag and
// must not call TryStart or Done. The returned function unsubscribes.
func (b *Busy) Subscribe(fn func(bool)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(bool))
	}
	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Busy) snapshot() []func(bool) {
	out := make([]func(bool), 0, len(b.subs))
	for id := 0; id < b.next; id++ {
		if fn, ok := b.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
