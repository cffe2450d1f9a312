// Package jobqueue runs cancellable background jobs on a fixed set of workers.
//
// All jobs enqueued between two CancelAll calls share one context. CancelAll
// cancels that context, so jobs that have not started are skipped and running
// jobs are expected to notice ctx.Done() and return early.
package jobqueue

import (
	"context"
	"sync"

	"imgview/ods"
)

type job struct {
	ctx context.Context
	f   func(ctx context.Context) error
}

// JobQueue is a FIFO of jobs served by a fixed number of goroutines.
type JobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []job
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	pending sync.WaitGroup
	workers sync.WaitGroup

	// OnError receives errors returned by jobs other than context cancellation.
	// It is called from worker goroutines.
	OnError func(error)
}

// New starts a queue with n workers. n < 1 is treated as 1.
func New(n int) *JobQueue {
	if n < 1 {
		n = 1
	}
	jq := &JobQueue{}
	jq.cond = sync.NewCond(&jq.mu)
	jq.ctx, jq.cancel = context.WithCancel(context.Background())
	for i := 0; i < n; i++ {
		jq.workers.Add(1)
		go jq.work()
	}
	return jq
}

func (jq *JobQueue) work() {
	defer jq.workers.Done()
	for {
		jq.mu.Lock()
		for len(jq.jobs) == 0 && !jq.closed {
			jq.cond.Wait()
		}
		if len(jq.jobs) == 0 {
			jq.mu.Unlock()
			return
		}
		j := jq.jobs[0]
		jq.jobs[0] = job{}
		jq.jobs = jq.jobs[1:]
		jq.mu.Unlock()

		jq.run(j)
	}
}

func (jq *JobQueue) run(j job) {
	defer jq.pending.Done()
	defer func() {
		if err := recover(); err != nil {
			ods.Recover(err)
		}
	}()
	if j.ctx.Err() != nil {
		return
	}
	if err := j.f(j.ctx); err != nil && j.ctx.Err() == nil && jq.OnError != nil {
		jq.OnError(err)
	}
}

// Enqueue adds f to the queue. It never blocks.
func (jq *JobQueue) Enqueue(f func(ctx context.Context) error) {
	jq.mu.Lock()
	defer jq.mu.Unlock()
	if jq.closed {
		return
	}
	jq.pending.Add(1)
	jq.jobs = append(jq.jobs, job{ctx: jq.ctx, f: f})
	jq.cond.Signal()
}

// CancelAll cancels every job enqueued so far.
func (jq *JobQueue) CancelAll() {
	jq.mu.Lock()
	defer jq.mu.Unlock()
	jq.cancel()
	jq.ctx, jq.cancel = context.WithCancel(context.Background())
}

// Wait blocks until every enqueued job has either run or been skipped.
func (jq *JobQueue) Wait() {
	jq.pending.Wait()
}

// Close cancels outstanding jobs and stops the workers.
func (jq *JobQueue) Close() {
	jq.mu.Lock()
	if jq.closed {
		jq.mu.Unlock()
		return
	}
	jq.closed = true
	jq.cancel()
	jq.cond.Broadcast()
	jq.mu.Unlock()
	jq.workers.Wait()
}
