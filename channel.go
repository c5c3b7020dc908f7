package msgchan

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/baxromumarov/msgchan/internal/ring"
	"github.com/baxromumarov/msgchan/internal/waitq"
)

// Channel is a goroutine-safe FIFO that hands values of type T from
// senders to receivers.
//
// A channel with positive capacity buffers up to that many values. A
// channel with capacity zero is a rendezvous: a value passes directly from
// a sender to a receiver, and a blocking [Channel.Send] returns only once
// its value has been taken.
//
// A channel is open until [Channel.Close]. Close wakes every blocked
// sender, receiver and [Select], discards values still buffered, and makes
// every later operation fail with [ErrClosed]. After Close, and once no
// goroutine is using it, a channel may be released with [Channel.Destroy].
type Channel[T any] struct {
	mu             sync.Mutex
	spaceAvailable sync.Cond // signaled by receives
	dataAvailable  sync.Cond // signaled by sends

	buf       *ring.Buffer[T]
	capacity  int
	closed    bool
	destroyed bool
	waiters   waitq.List

	// Goroutines blocked in Send or Receive on a rendezvous channel. At
	// most one of the queues is non-empty.
	sendq []*parked[T]
	recvq []*parked[T]

	sends    uint64
	receives uint64
	wins     uint64

	id   uuid.UUID
	name string
	log  logrus.FieldLogger
}

// New creates an open channel that buffers up to capacity values.
// A capacity of zero creates a rendezvous channel.
// New panics if capacity is negative.
func New[T any](capacity int, opts ...Option) *Channel[T] {
	if capacity < 0 {
		panic("msgchan: New requires capacity >= 0")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == uuid.Nil {
		cfg.id = uuid.New()
	}
	if cfg.name == "" {
		cfg.name = "chan-" + cfg.id.String()[:8]
	}

	c := &Channel[T]{
		buf:      ring.New[T](capacity),
		capacity: capacity,
		id:       cfg.id,
		name:     cfg.name,
	}
	c.spaceAvailable.L = &c.mu
	c.dataAvailable.L = &c.mu
	c.log = cfg.logger.WithFields(logrus.Fields{
		"chan_id":   c.id.String(),
		"chan_name": c.name,
	})

	c.log.WithField("capacity", capacity).Debug("channel created")
	return c
}

// Send delivers v, blocking while the channel is full. On a rendezvous
// channel Send blocks until a receiver has taken v.
//
// Send returns [ErrClosed] if the channel is closed before v is delivered.
func (c *Channel[T]) Send(v T) error {
	if c == nil {
		return ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return c.sendDirect(v)
	}

	for {
		if err := c.usable(); err != nil {
			return err
		}
		if !c.buf.Full() {
			c.put(v)
			return nil
		}
		c.spaceAvailable.Wait()
	}
}

// Receive takes the oldest value, blocking while the channel is empty.
//
// Receive returns [ErrClosed] once the channel is closed, even if values
// were still buffered at that moment: Close discards them.
func (c *Channel[T]) Receive() (T, error) {
	var zero T
	if c == nil {
		return zero, ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return c.receiveDirect()
	}

	for {
		if err := c.usable(); err != nil {
			return zero, err
		}
		if !c.buf.Empty() {
			return c.get(), nil
		}
		c.dataAvailable.Wait()
	}
}

// TrySend delivers v only if that needs no waiting. It returns [ErrFull]
// when the channel has no room, which on a rendezvous channel means no
// receiver is ready to take v right now.
func (c *Channel[T]) TrySend(v T) error {
	if c == nil {
		return ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return err
	}
	if c.capacity == 0 {
		if c.offer(nil, v) != matched {
			return ErrFull
		}
		return nil
	}
	if c.buf.Full() {
		return ErrFull
	}
	c.put(v)
	return nil
}

// TryReceive takes the oldest value only if one is available now.
// It returns [ErrEmpty] otherwise.
func (c *Channel[T]) TryReceive() (T, error) {
	var zero T
	if c == nil {
		return zero, ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return zero, err
	}
	if c.capacity == 0 {
		v, res := c.take(nil)
		if res != matched {
			return zero, ErrEmpty
		}
		return v, nil
	}
	if c.buf.Empty() {
		return zero, ErrEmpty
	}
	return c.get(), nil
}

// Close marks the channel closed, discards buffered values and wakes every
// blocked sender, receiver and select. Closing twice returns [ErrClosed].
func (c *Channel[T]) Close() error {
	if c == nil {
		return ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return err
	}

	c.closed = true
	discarded := c.buf.Reset()
	c.sendq, c.recvq = nil, nil
	c.spaceAvailable.Broadcast()
	c.dataAvailable.Broadcast()
	woken := c.waiters.NotifyAll()

	c.log.WithFields(logrus.Fields{
		"discarded":      discarded,
		"select_waiters": woken,
	}).Debug("channel closed")
	return nil
}

// Destroy releases the channel's storage. The channel must be closed
// first, otherwise Destroy returns [ErrDestroy] and leaves it open and
// usable. The caller must make sure no goroutine is still inside an
// operation on the channel.
//
// Operations on a destroyed channel return [ErrDestroyed].
func (c *Channel[T]) Destroy() error {
	if c == nil {
		return ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}
	if !c.closed {
		c.log.Warn("destroy called on open channel")
		return ErrDestroy
	}

	c.destroyed = true
	c.buf.Free()
	c.waiters.Clear()

	c.log.Debug("channel destroyed")
	return nil
}

// Len returns the number of buffered values. It is always zero for a
// rendezvous channel.
func (c *Channel[T]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.Len()
}

// Cap returns the capacity the channel was created with.
func (c *Channel[T]) Cap() int {
	if c == nil {
		return 0
	}
	return c.capacity
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// ID returns the channel identity.
func (c *Channel[T]) ID() uuid.UUID { return c.id }

// Name returns the channel label.
func (c *Channel[T]) Name() string { return c.name }

// usable returns the error any operation must report before touching the
// buffer. c.mu is held.
func (c *Channel[T]) usable() error {
	if c.destroyed {
		return ErrDestroyed
	}
	if c.closed {
		return ErrClosed
	}
	return nil
}

// put stores v and wakes one receiver plus every select waiter. The
// caller has established there is room. c.mu is held.
func (c *Channel[T]) put(v T) {
	c.buf.Add(v)
	c.sends++
	c.dataAvailable.Signal()
	c.waiters.NotifyAll()
}

// get removes the oldest value and wakes one sender plus every select
// waiter. The caller has established a value is present. c.mu is held.
func (c *Channel[T]) get() T {
	v, _ := c.buf.Remove()
	c.receives++
	c.spaceAvailable.Signal()
	c.waiters.NotifyAll()
	return v
}

// register adds case index of select waiter w for direction dir. elem is
// the offered value of a send case or the *T destination of a receive
// case. It returns nil if the channel has been destroyed.
func (c *Channel[T]) register(w *waitq.Waiter, dir waitq.Dir, index int, elem any) *waitq.Link {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil
	}
	return c.waiters.Push(w, dir, index, elem)
}

// unregister removes a link added by register. Removing a link twice, or
// after Destroy, is a no-op.
func (c *Channel[T]) unregister(k *waitq.Link) {
	if c == nil || k == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters.Remove(k)
}
