// Package uiqueue marshals work from background goroutines onto the goroutine
// that owns the view state.
package uiqueue

import "sync"

// Queue collects functions posted from any goroutine. Only the owner goroutine
// calls Drain.
type Queue struct {
	mu    sync.Mutex
	funcs []func()
	ready chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post appends f and wakes up whoever waits on Ready. It never blocks.
func (q *Queue) Post(f func()) {
	q.mu.Lock()
	q.funcs = append(q.funcs, f)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after Post. A single signal may cover several posts.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs every queued function in posting order, including functions
// posted by the functions it runs, and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		funcs := q.funcs
		q.funcs = nil
		q.mu.Unlock()
		if len(funcs) == 0 {
			return n
		}
		for _, f := range funcs {
			f()
		}
		n += len(funcs)
	}
}

// Len reports the number of functions waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.funcs)
}
