package msgchan

import "errors"

// Semaphore bounds concurrency with a [Channel] of n empty tokens:
// acquiring sends a token, releasing receives one.
type Semaphore struct {
	slots *Channel[struct{}]
}

// NewSemaphore creates a semaphore with n slots. Options configure the
// underlying channel.
// Panics if n <= 0.
func NewSemaphore(n int, opts ...Option) *Semaphore {
	if n <= 0 {
		panic("msgchan: NewSemaphore requires n > 0")
	}
	return &Semaphore{slots: New[struct{}](n, opts...)}
}

// Acquire blocks until a slot is free. It returns [ErrClosed] once the
// semaphore has been closed.
func (s *Semaphore) Acquire() error {
	return s.slots.Send(struct{}{})
}

// TryAcquire takes a slot if one is free and reports whether it did.
func (s *Semaphore) TryAcquire() bool {
	return s.slots.TrySend(struct{}{}) == nil
}

// Release frees a slot. Panics if no slot is held. Release after Close is
// a no-op.
func (s *Semaphore) Release() {
	_, err := s.slots.TryReceive()
	if errors.Is(err, ErrEmpty) {
		panic("msgchan: Semaphore.Release called without matching Acquire")
	}
}

// Available returns the number of free slots.
// The value may be stale in concurrent contexts.
func (s *Semaphore) Available() int {
	return s.slots.Cap() - s.slots.Len()
}

// Close wakes every blocked Acquire with [ErrClosed]. Later Acquire calls
// fail with ErrClosed too.
func (s *Semaphore) Close() error {
	return s.slots.Close()
}
