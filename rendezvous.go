package msgchan

import "github.com/baxromumarov/msgchan/internal/waitq"

// parked is a goroutine blocked in Send or Receive on a rendezvous
// channel. A partner fills or empties v and sets done under the channel
// lock.
type parked[T any] struct {
	v    T
	done bool
}

// match is the result of trying to pair with a partner.
type match int

const (
	unmatched match = iota
	matched
	preempted // the caller's own select was completed elsewhere
)

// sendDirect is the rendezvous Send. It returns once a receiver holds v.
// c.mu is held.
func (c *Channel[T]) sendDirect(v T) error {
	if err := c.usable(); err != nil {
		return err
	}
	if c.offer(nil, v) == matched {
		return nil
	}

	p := &parked[T]{v: v}
	c.sendq = append(c.sendq, p)
	// Selects with a receive case here can now take v.
	c.waiters.NotifyAll()
	for !p.done {
		if err := c.usable(); err != nil {
			return err
		}
		c.spaceAvailable.Wait()
	}
	return nil
}

// receiveDirect is the rendezvous Receive. c.mu is held.
func (c *Channel[T]) receiveDirect() (T, error) {
	var zero T
	if err := c.usable(); err != nil {
		return zero, err
	}
	if v, res := c.take(nil); res == matched {
		return v, nil
	}

	p := &parked[T]{}
	c.recvq = append(c.recvq, p)
	// Selects with a send case here can now hand off.
	c.waiters.NotifyAll()
	for !p.done {
		if err := c.usable(); err != nil {
			return zero, err
		}
		c.dataAvailable.Wait()
	}
	return p.v, nil
}

// offer hands v to the oldest parked receiver, or else to a select waiting
// to receive here. self is the offering select, nil for Send and TrySend;
// it fires only together with the partner. c.mu is held.
func (c *Channel[T]) offer(self *waitq.Waiter, v T) match {
	if len(c.recvq) > 0 {
		if self != nil && !self.Commit() {
			return preempted
		}
		r := c.recvq[0]
		c.recvq[0] = nil
		c.recvq = c.recvq[1:]

		r.v, r.done = v, true
		c.sends++
		c.receives++
		c.dataAvailable.Broadcast()
		return matched
	}

	res := unmatched
	c.waiters.Match(waitq.Recv, self, func(k *waitq.Link) bool {
		switch waitq.Pair(self, k.Waiter()) {
		case waitq.Claimed:
			if dst := k.Elem().(*T); dst != nil {
				*dst = v
			}
			c.sends++
			c.receives++
			c.wins++
			k.Waiter().Resolve(k.Index())
			res = matched
			return true
		case waitq.Preempted:
			res = preempted
			return true
		case waitq.Retry:
			self.Notify()
		}
		return false
	})
	return res
}

// take is the mirror of offer: it takes the value of the oldest parked
// sender, or else of a select waiting to send here. c.mu is held.
func (c *Channel[T]) take(self *waitq.Waiter) (T, match) {
	var v T
	if len(c.sendq) > 0 {
		if self != nil && !self.Commit() {
			return v, preempted
		}
		s := c.sendq[0]
		c.sendq[0] = nil
		c.sendq = c.sendq[1:]

		v, s.done = s.v, true
		c.sends++
		c.receives++
		c.spaceAvailable.Broadcast()
		return v, matched
	}

	res := unmatched
	c.waiters.Match(waitq.Send, self, func(k *waitq.Link) bool {
		switch waitq.Pair(self, k.Waiter()) {
		case waitq.Claimed:
			v = k.Elem().(T)
			c.sends++
			c.receives++
			c.wins++
			k.Waiter().Resolve(k.Index())
			res = matched
			return true
		case waitq.Preempted:
			res = preempted
			return true
		case waitq.Retry:
			self.Notify()
		}
		return false
	})
	return v, res
}
