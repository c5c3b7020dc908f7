// Package waitq keeps the set of select waiters parked on a channel.
//
// A Waiter belongs to one blocked Select call. The Select inserts one Link
// per case into the List of that case's channel, so that a state change on
// any watched channel can wake it. Lists reference waiters through links;
// they never own them. Like the ring buffer, a List relies on the owning
// channel's lock.
//
// A waiter fires exactly once. Its owner fires it when it completes a case
// itself; a goroutine on another channel fires it when it completes one of
// the waiter's cases on the owner's behalf, taking or filling the value
// carried by the link. Every firing goes through a compare-and-swap, so two
// channels can never complete the same select.
package waitq

import (
	"runtime"
	"sync/atomic"
)

// Dir is the direction of the case a link was registered for.
type Dir uint8

const (
	Send Dir = iota + 1
	Recv
)

func (d Dir) String() string {
	switch d {
	case Send:
		return "send"
	case Recv:
		return "recv"
	default:
		return "unknown"
	}
}

// Waiter states.
const (
	open int32 = iota
	busy       // the owner is pairing with another waiter
	fired
)

var lastID atomic.Uint64

// Waiter is the wake-up handle of one parked select.
//
// The wake token is buffered, so a Notify that lands between the select's
// last scan and its call to Wait is not lost.
type Waiter struct {
	id    uint64
	state atomic.Int32
	wake  chan struct{}
	done  chan struct{}
	index int // case completed by another goroutine, valid once done is closed
}

// NewWaiter returns an open waiter with no pending wake-up.
func NewWaiter() *Waiter {
	return &Waiter{
		id:   lastID.Add(1),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Notify posts a wake-up. It never blocks; repeated notifications before
// the next Wait collapse into one.
func (w *Waiter) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until a wake-up has been posted, or until another goroutine
// has completed one of the waiter's cases.
func (w *Waiter) Wait() {
	select {
	case <-w.wake:
	case <-w.done:
	}
}

// Pending reports whether a wake-up is waiting to be consumed.
func (w *Waiter) Pending() bool {
	return len(w.wake) > 0
}

// Commit fires w for its owner. It reports false if another goroutine
// fired w first; the owner must then collect that result with Outcome.
func (w *Waiter) Commit() bool {
	return w.state.CompareAndSwap(open, fired)
}

// Fired reports whether w has fired.
func (w *Waiter) Fired() bool {
	return w.state.Load() == fired
}

// Resolve publishes the case index completed on the owner's behalf after a
// successful Pair. It must be called exactly once, after the value moved.
func (w *Waiter) Resolve(index int) {
	w.index = index
	close(w.done)
	w.Notify()
}

// Outcome blocks until Resolve and returns the case index it published.
func (w *Waiter) Outcome() int {
	<-w.done
	return w.index
}

// Claim is the result of Pair.
type Claim int

const (
	// Claimed: other has fired, and so has self if it was not nil.
	Claimed Claim = iota
	// Gone: other had already fired; skip its link.
	Gone
	// Retry: other is busy pairing elsewhere and has priority. Self is
	// still open and should scan again later.
	Retry
	// Preempted: self was fired by another goroutine.
	Preempted
)

// Pair fires other and, when self is not nil, self in one step, so that a
// select completes a case against another select only if neither has
// completed anything else. A nil self stands for a plain blocking or
// non-blocking operation that has nothing to fire.
//
// While a select pairs, it is briefly busy. A waiter that meets a busy
// partner with a higher id spins; one that meets a busy partner with a
// lower id backs off with Retry. Two selects pairing with each other thus
// never wait on one another.
func Pair(self, other *Waiter) Claim {
	for {
		if self != nil && !self.state.CompareAndSwap(open, busy) {
			return Preempted
		}
		if other.state.CompareAndSwap(open, fired) {
			if self != nil {
				self.state.Store(fired)
			}
			return Claimed
		}
		if self != nil {
			self.state.Store(open)
		}

		switch other.state.Load() {
		case fired:
			return Gone
		case busy:
			if self != nil && self.id > other.id {
				return Retry
			}
			runtime.Gosched()
		}
	}
}

// Link is one registration of a waiter in a List.
type Link struct {
	w     *Waiter
	dir   Dir
	index int
	elem  any
	list  *List
	prev  *Link
	next  *Link
}

// Waiter returns the waiter this link wakes.
func (k *Link) Waiter() *Waiter { return k.w }

// Dir returns the direction the link was registered for.
func (k *Link) Dir() Dir { return k.dir }

// Index returns the select case index the link stands for.
func (k *Link) Index() int { return k.index }

// Elem returns the value offered by a send link, or the destination of a
// receive link.
func (k *Link) Elem() any { return k.elem }

// List is a doubly linked list of links. The zero value is empty and ready
// to use.
type List struct {
	head *Link
	tail *Link
	n    int
}

// Push registers case index of w for direction dir. elem is what a partner
// needs to complete the case: the value to send, or where to store a
// received one. Push returns the link needed to remove it again.
func (l *List) Push(w *Waiter, dir Dir, index int, elem any) *Link {
	k := &Link{w: w, dir: dir, index: index, elem: elem, list: l, prev: l.tail}
	if l.tail == nil {
		l.head = k
	} else {
		l.tail.next = k
	}
	l.tail = k
	l.n++
	return k
}

// Remove unlinks k. It reports false if k is nil or not a member of l,
// which makes removal safe to repeat.
func (l *List) Remove(k *Link) bool {
	if k == nil || k.list != l {
		return false
	}
	if k.prev == nil {
		l.head = k.next
	} else {
		k.prev.next = k.next
	}
	if k.next == nil {
		l.tail = k.prev
	} else {
		k.next.prev = k.prev
	}
	l.n--
	k.prev, k.next, k.list = nil, nil, nil
	return true
}

// Len returns the number of registered links.
func (l *List) Len() int { return l.n }

// Match calls fn, oldest first, for every link registered for dir by a
// waiter other than self, until fn returns true. It reports whether fn
// did. A nil self excludes no waiter.
func (l *List) Match(dir Dir, self *Waiter, fn func(*Link) bool) bool {
	for k := l.head; k != nil; {
		next := k.next
		if k.dir == dir && (self == nil || k.w != self) && fn(k) {
			return true
		}
		k = next
	}
	return false
}

// NotifyAll wakes every registered waiter and returns how many links were
// visited. Links stay registered; each select removes its own.
func (l *List) NotifyAll() int {
	n := 0
	for k := l.head; k != nil; k = k.next {
		k.w.Notify()
		n++
	}
	return n
}

// Each calls fn for every link from oldest to newest.
func (l *List) Each(fn func(*Link)) {
	for k := l.head; k != nil; {
		next := k.next
		fn(k)
		k = next
	}
}

// Clear unlinks every link. Waiters are not notified.
func (l *List) Clear() {
	l.Each(func(k *Link) { l.Remove(k) })
}
