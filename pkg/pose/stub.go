package pose

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("pose estimator closed")

// Func estimates landmarks for a request.
type Func func(ctx context.Context, req Request) Result

// Local runs an estimation function on a worker goroutine and delivers its
// results in submission order. It is used in tests and for in-process
// estimators.
type Local struct {
	fn      Func
	queue   chan queued
	results chan Result

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type queued struct {
	ctx context.Context
	req Request
}

// NewLocal starts a worker with the given queue depth.
func NewLocal(fn Func, depth int) *Local {
	if depth <= 0 {
		depth = 1
	}
	l := &Local{
		fn:      fn,
		queue:   make(chan queued, depth),
		results: make(chan Result, depth),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Local) run() {
	defer l.wg.Done()
	defer close(l.results)
	for q := range l.queue {
		res := l.fn(q.ctx, q.req)
		res.SessionID = q.req.SessionID
		res.Seq = q.req.Seq
		l.results <- res
	}
}

// Send queues req, blocking only while the queue is full.
func (l *Local) Send(ctx context.Context, req Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	select {
	case l.queue <- queued{ctx: ctx, req: req}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results implements Estimator.
func (l *Local) Results() <-chan Result {
	return l.results
}

// Close stops accepting requests. Results already queued are still
// delivered before the results channel closes.
func (l *Local) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()
	return nil
}
