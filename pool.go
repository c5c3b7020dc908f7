package msgchan

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// ErrPoolClosed is returned by [Pool.Submit] when the pool has been closed.
var ErrPoolClosed = errors.New("msgchan: pool is closed")

// PanicError carries a panic recovered from a pool task.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v\n\n%s", e.Value, e.Stack)
}

// Pool runs submitted tasks on a fixed set of workers that receive from a
// shared [Channel].
type Pool struct {
	tasks   *Channel[func() error]
	wg      sync.WaitGroup
	workers int
	log     logrus.FieldLogger

	mu     sync.RWMutex // serializes Submit with Close
	closed bool

	closeOnce sync.Once
	closeErr  error

	errMu sync.Mutex
	errs  []error

	submitted atomic.Int64
	completed atomic.Int64
	errored   atomic.Int64
	inFlight  atomic.Int64
}

// PoolStats provides a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted  int64 // total tasks submitted
	Completed  int64 // tasks finished (success + error)
	Errored    int64 // tasks that returned non-nil error or panicked
	InFlight   int64 // tasks currently executing
	QueueDepth int   // tasks waiting in the queue
	Workers    int   // worker count (fixed at creation)
}

// PoolOption configures a [Pool].
type PoolOption func(*poolConfig)

type poolConfig struct {
	queueSize int
	logger    logrus.FieldLogger
}

// WithQueueSize sets the task queue capacity. Default is n * 2. Zero makes
// every Submit a rendezvous with a worker.
func WithQueueSize(size int) PoolOption {
	return func(c *poolConfig) {
		if size < 0 {
			panic("msgchan: WithQueueSize requires non-negative size")
		}
		c.queueSize = size
	}
}

// WithPoolLogger sets the logger used by the pool and its queue.
func WithPoolLogger(l logrus.FieldLogger) PoolOption {
	return func(c *poolConfig) {
		if l == nil {
			panic("msgchan: WithPoolLogger requires a non-nil logger")
		}
		c.logger = l
	}
}

// NewPool starts a pool with n workers.
// Panics if n <= 0.
func NewPool(n int, opts ...PoolOption) *Pool {
	if n <= 0 {
		panic("msgchan: NewPool requires n > 0")
	}

	cfg := poolConfig{queueSize: n * 2, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		tasks:   New[func() error](cfg.queueSize, WithName("pool-queue"), WithLogger(cfg.logger)),
		workers: n,
		log:     cfg.logger.WithField("component", "pool"),
	}

	p.wg.Add(n)
	for range n {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		fn, err := p.tasks.Receive()
		if err != nil || fn == nil {
			// nil is the stop marker queued by Close.
			return
		}
		p.runTask(fn)
	}
}

func (p *Pool) runTask(fn func() error) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: string(debug.Stack())}
			}
		}()
		err = fn()
	}()
	if err != nil {
		p.errored.Add(1)
		p.errMu.Lock()
		p.errs = append(p.errs, err)
		p.errMu.Unlock()
	}
}

// Submit queues fn, blocking while the queue is full. It returns
// [ErrPoolClosed] once Close has started.
// Panics if fn is nil.
func (p *Pool) Submit(fn func() error) error {
	if fn == nil {
		panic("msgchan: Pool.Submit requires a non-nil task")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	if err := p.tasks.Send(fn); err != nil {
		return err
	}
	p.submitted.Add(1)
	return nil
}

// TrySubmit queues fn only if there is room right now.
// Panics if fn is nil.
func (p *Pool) TrySubmit(fn func() error) bool {
	if fn == nil {
		panic("msgchan: Pool.TrySubmit requires a non-nil task")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || p.tasks.TrySend(fn) != nil {
		return false
	}
	p.submitted.Add(1)
	return true
}

// Stats returns a point-in-time snapshot of pool activity.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Errored:    p.errored.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: p.tasks.Len(),
		Workers:    p.workers,
	}
}

// Close stops intake, lets the workers finish every queued task, then
// releases the queue. It returns the joined task errors.
// Safe to call multiple times; subsequent calls return the same result.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		// Stop markers queue behind every accepted task.
		for range p.workers {
			_ = p.tasks.Send(nil)
		}
		p.wg.Wait()

		_ = p.tasks.Close()
		_ = p.tasks.Destroy()

		p.errMu.Lock()
		p.closeErr = errors.Join(p.errs...)
		p.errMu.Unlock()

		st := p.Stats()
		p.log.WithFields(logrus.Fields{
			"completed": st.Completed,
			"errored":   st.Errored,
		}).Debug("pool closed")
	})
	return p.closeErr
}
