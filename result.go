package msgchan

import (
	"runtime/debug"
	"sync"
)

// Result holds the outcome of a pool task that produces a typed value.
// Create one via [SubmitResult].
type Result[T any] struct {
	ch *Channel[outcome[T]]

	mu      sync.Mutex
	settled bool
	val     T
	err     error
}

type outcome[T any] struct {
	val T
	err error
}

// SubmitResult queues fn on p and returns a [Result] that delivers its
// value. A panic in fn is reported as a [*PanicError] by both the Result
// and [Pool.Close].
/* Example:
	r, err := msgchan.SubmitResult(pool, func() (int, error) {
		return expensiveCalc()
	})
	val, err := r.Wait()
*/
func SubmitResult[T any](p *Pool, fn func() (T, error)) (*Result[T], error) {
	if fn == nil {
		panic("msgchan: SubmitResult requires a non-nil task")
	}

	r := &Result[T]{ch: New[outcome[T]](1, WithName("result"), WithLogger(p.log))}

	err := p.Submit(func() (err error) {
		var v T
		defer func() {
			if rec := recover(); rec != nil {
				err = &PanicError{Value: rec, Stack: string(debug.Stack())}
			}
			// Capacity 1 and a single sender: never blocks.
			_ = r.ch.Send(outcome[T]{v, err})
		}()
		v, err = fn()
		return err
	})
	if err != nil {
		_ = r.ch.Close()
		_ = r.ch.Destroy()
		return nil, err
	}
	return r, nil
}

// Wait blocks until the task completes and returns its value and error.
// It may be called any number of times.
func (r *Result[T]) Wait() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.settled {
		o, err := r.ch.Receive()
		if err != nil {
			var zero T
			return zero, err
		}
		r.settle(o)
	}
	return r.val, r.err
}

// TryWait is Wait without blocking. It returns [ErrEmpty] while the task
// is still pending.
func (r *Result[T]) TryWait() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.settled {
		o, err := r.ch.TryReceive()
		if err != nil {
			var zero T
			return zero, err
		}
		r.settle(o)
	}
	return r.val, r.err
}

// settle records o and releases the channel. r.mu is held.
func (r *Result[T]) settle(o outcome[T]) {
	r.settled = true
	r.val, r.err = o.val, o.err
	_ = r.ch.Close()
	_ = r.ch.Destroy()
}
