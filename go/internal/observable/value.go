package observable

import "sync"

// Observer receives the new value of a Value after every change.
type Observer[T any] func(T)

type subscription[T any] struct {
	id uint64
	fn Observer[T]
}

// Value is a push-based holder. Every change is broadcast to the registered
// observers in subscription order, even when the new value equals the old one.
type Value[T any] struct {
	// notifyMu serializes Set deliveries so observers see values in Set order
	notifyMu sync.Mutex

	mu        sync.Mutex
	current   T
	observers []subscription[T]
	nextID    uint64
}

// NewValue creates a holder with an initial value. No notification is sent
// for the initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores value and notifies every observer on the calling goroutine.
// An observer must not Set the Value it is observing.
func (v *Value[T]) Set(value T) {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.Update(value)()
}

// Update stores value right away and returns a func that delivers it to the
// observers registered at delivery time. Callers that hold their own lock
// while mutating use it to notify after releasing that lock; they are then
// responsible for running deliveries in order.
func (v *Value[T]) Update(value T) (notify func()) {
	v.mu.Lock()
	v.current = value
	v.mu.Unlock()

	return func() { v.deliver(value) }
}

func (v *Value[T]) deliver(value T) {
	v.mu.Lock()
	targets := make([]Observer[T], len(v.observers))
	for i, sub := range v.observers {
		targets[i] = sub.fn
	}
	v.mu.Unlock()

	for _, fn := range targets {
		fn(value)
	}
}

// Subscribe registers fn and immediately delivers the current value to it.
// The initial delivery runs without any lock held, so Subscribe may be
// called from an observer; a change made concurrently by another goroutine
// can reach fn before the initial value does.
// The returned function removes the observer; calling it more than once is safe.
func (v *Value[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	v.mu.Lock()
	current := v.current
	unsubscribe = v.addLocked(fn)
	v.mu.Unlock()

	fn(current)
	return unsubscribe
}

// OnChange registers fn for future changes only.
func (v *Value[T]) OnChange(fn Observer[T]) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addLocked(fn)
}

func (v *Value[T]) addLocked(fn Observer[T]) func() {
	id := v.nextID
	v.nextID++
	v.observers = append(v.observers, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, sub := range v.observers {
		if sub.id == id {
			v.observers = append(v.observers[:i:i], v.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered observers.
func (v *Value[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}
