package msgchan

import "github.com/baxromumarov/msgchan/internal/waitq"

// Dir is the direction of a select case.
type Dir uint8

const (
	Send Dir = Dir(waitq.Send)
	Recv Dir = Dir(waitq.Recv)
)

func (d Dir) String() string { return waitq.Dir(d).String() }

// Case is one operation offered to [Select]. Build cases with [SendCase]
// and [RecvCase]; cases over channels of different element types can be
// mixed in one call.
type Case interface {
	// Dir returns whether the case sends or receives.
	Dir() Dir

	// poll attempts the operation under the channel lock. It reports
	// matched only when the operation completed, and preempted when self
	// was completed by another goroutine instead.
	poll(self *waitq.Waiter) (match, error)
	register(w *waitq.Waiter, index int) *waitq.Link
	unregister(k *waitq.Link)
}

type sendCase[T any] struct {
	ch *Channel[T]
	v  T
}

// SendCase offers to send v on ch.
func SendCase[T any](ch *Channel[T], v T) Case {
	return &sendCase[T]{ch: ch, v: v}
}

func (sc *sendCase[T]) Dir() Dir { return Send }

func (sc *sendCase[T]) poll(self *waitq.Waiter) (match, error) {
	c := sc.ch
	if c == nil {
		return unmatched, ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return unmatched, err
	}
	if c.capacity == 0 {
		res := c.offer(self, sc.v)
		if res == matched {
			c.wins++
		}
		return res, nil
	}
	if c.buf.Full() {
		return unmatched, nil
	}
	if self != nil && !self.Commit() {
		return preempted, nil
	}
	c.put(sc.v)
	c.wins++
	return matched, nil
}

func (sc *sendCase[T]) register(w *waitq.Waiter, index int) *waitq.Link {
	return sc.ch.register(w, waitq.Send, index, sc.v)
}

func (sc *sendCase[T]) unregister(k *waitq.Link) { sc.ch.unregister(k) }

type recvCase[T any] struct {
	ch  *Channel[T]
	dst *T
}

// RecvCase offers to receive from ch into *dst. A nil dst discards the
// value.
func RecvCase[T any](ch *Channel[T], dst *T) Case {
	return &recvCase[T]{ch: ch, dst: dst}
}

func (rc *recvCase[T]) Dir() Dir { return Recv }

func (rc *recvCase[T]) poll(self *waitq.Waiter) (match, error) {
	c := rc.ch
	if c == nil {
		return unmatched, ErrNilChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return unmatched, err
	}

	var v T
	if c.capacity == 0 {
		var res match
		if v, res = c.take(self); res != matched {
			return res, nil
		}
	} else {
		if c.buf.Empty() {
			return unmatched, nil
		}
		if self != nil && !self.Commit() {
			return preempted, nil
		}
		v = c.get()
	}

	c.wins++
	if rc.dst != nil {
		*rc.dst = v
	}
	return matched, nil
}

func (rc *recvCase[T]) register(w *waitq.Waiter, index int) *waitq.Link {
	return rc.ch.register(w, waitq.Recv, index, rc.dst)
}

func (rc *recvCase[T]) unregister(k *waitq.Link) { rc.ch.unregister(k) }

// Select performs exactly one of the given cases and returns its index.
//
// Cases are scanned in order and the first one that can proceed wins, so
// when several are ready the lowest index is chosen every time. If the
// scan reaches a case whose channel is closed, Select stops and returns
// that index with a [*SelectError] wrapping [ErrClosed]. If nothing is
// ready, Select blocks until a send, receive or close on any of the
// channels, then scans again from the first case.
//
// A case on a rendezvous channel is ready when a partner is waiting on the
// other side: a goroutine blocked in Send or Receive, or another Select
// with a matching case. The value passes directly between the two, and
// both complete together.
//
// Select never holds more than one channel lock at a time.
func Select(cases ...Case) (int, error) {
	return run(cases, true)
}

// TrySelect is the non-blocking form of [Select]. It returns -1 and
// [ErrNotReady] when no case can proceed.
func TrySelect(cases ...Case) (int, error) {
	return run(cases, false)
}

func run(cases []Case, block bool) (int, error) {
	if len(cases) == 0 {
		return -1, ErrNoCases
	}
	for i, c := range cases {
		if c == nil {
			return i, &SelectError{Index: i, Err: ErrNilCase}
		}
	}

	var (
		w     *waitq.Waiter
		links []*waitq.Link
	)
	defer func() {
		for i, k := range links {
			cases[i].unregister(k)
		}
	}()

	for {
		for i, c := range cases {
			res, err := c.poll(w)
			if err != nil {
				// Failing a case completes the select too, unless a partner
				// completed another case first.
				if w != nil && !w.Commit() {
					return w.Outcome(), nil
				}
				return i, &SelectError{Index: i, Dir: c.Dir(), Err: err}
			}
			switch res {
			case matched:
				return i, nil
			case preempted:
				return w.Outcome(), nil
			}
		}

		if !block {
			return -1, ErrNotReady
		}

		if w == nil {
			// Register everywhere, then scan once more: anything that
			// happened between the scan above and the registration is
			// picked up here, anything later posts a wake-up.
			w = waitq.NewWaiter()
			links = make([]*waitq.Link, len(cases))
			for i, c := range cases {
				links[i] = c.register(w, i)
			}
			continue
		}

		w.Wait()
		if w.Fired() {
			return w.Outcome(), nil
		}
	}
}
