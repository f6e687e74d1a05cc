// Package dispatch moves work from background goroutines onto the frame loop.
//
// Loaders and decoders never touch scene state directly. They Post a closure
// and the owning goroutine runs it on its next Drain.
package dispatch

import "sync"

// Queue is a multi-producer, single-consumer closure queue.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Post enqueues fn. It reports false once the queue is closed.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	return true
}

// Drain runs every closure queued so far, in post order, on the caller's
// goroutine. Closures posted while draining run on the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of queued closures.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close rejects further posts and discards pending work.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}
