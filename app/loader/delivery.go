package loader

import (
	"sync"
)

// Delivery holds a completion that fires at most once. Cancel empties the slot,
// so a result that arrives afterwards is dropped.
type Delivery[T any] struct {
	mu         sync.Mutex
	completion func(T, error)
}

func NewDelivery[T any](completion func(T, error)) *Delivery[T] {
	return &Delivery[T]{completion: completion}
}

func (d *Delivery[T]) Deliver(value T, err error) {
	d.mu.Lock()
	completion := d.completion
	d.completion = nil
	d.mu.Unlock()

	if completion != nil {
		completion(value, err)
	}
}

func (d *Delivery[T]) Cancel() {
	d.mu.Lock()
	d.completion = nil
	d.mu.Unlock()
}

// Lifetime marks a loader as disposed. Dispose waits for guarded completions
// already running, and once it returns none is invoked again, regardless of
// when the underlying store or HTTP call reports back. A guarded completion
// must not dispose its own lifetime.
type Lifetime struct {
	mu       sync.RWMutex
	disposed bool
}

func (l *Lifetime) Dispose() {
	l.mu.Lock()
	l.disposed = true
	l.mu.Unlock()
}

func (l *Lifetime) Disposed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.disposed
}

// run calls deliver unless l has been disposed, holding off Dispose until it
// returns.
func (l *Lifetime) run(deliver func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.disposed {
		return
	}
	deliver()
}

// Guard wraps completion so that it is skipped once l has been disposed.
func Guard[T any](l *Lifetime, completion func(T, error)) func(T, error) {
	return func(value T, err error) {
		l.run(func() { completion(value, err) })
	}
}

// GuardErr is Guard for completions that only carry an error.
func GuardErr(l *Lifetime, completion func(error)) func(error) {
	return func(err error) {
		l.run(func() { completion(err) })
	}
}
