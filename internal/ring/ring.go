// Package ring implements the fixed-capacity circular FIFO that backs a
// msgchan channel. A Buffer does no locking of its own; the owning channel
// serializes every call.
package ring

// Buffer is a bounded FIFO of values of type T.
//
// The zero value is a buffer of capacity zero, which never accepts a value.
type Buffer[T any] struct {
	items []T
	head  int // index of the oldest value
	count int
}

// New returns an empty buffer that holds at most capacity values.
// New panics if capacity is negative.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		panic("ring: negative capacity")
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Add appends v at the tail. It reports false, leaving the buffer
// untouched, when the buffer is full.
func (b *Buffer[T]) Add(v T) bool {
	if b.count == len(b.items) {
		return false
	}
	b.items[(b.head+b.count)%len(b.items)] = v
	b.count++
	return true
}

// Remove pops the value at the head. It reports false when the buffer is
// empty.
func (b *Buffer[T]) Remove() (T, bool) {
	var zero T
	if b.count == 0 {
		return zero, false
	}
	v := b.items[b.head]
	b.items[b.head] = zero // drop the reference held by the slot
	b.head = (b.head + 1) % len(b.items)
	b.count--
	return v, true
}

// Len returns the number of values currently held.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Full reports whether Add would fail.
func (b *Buffer[T]) Full() bool { return b.count == len(b.items) }

// Empty reports whether Remove would fail.
func (b *Buffer[T]) Empty() bool { return b.count == 0 }

// Reset discards every held value and returns how many were dropped.
func (b *Buffer[T]) Reset() int {
	n := b.count
	clear(b.items)
	b.head, b.count = 0, 0
	return n
}

// Free releases the backing storage. The buffer behaves as capacity zero
// afterwards.
func (b *Buffer[T]) Free() {
	b.items = nil
	b.head, b.count = 0, 0
}
