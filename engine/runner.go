/*
runner.go - Optional off-goroutine execution

PURPOSE:
  The engine is synchronous; callers that must not block (interactive
  reconfiguration, request handlers) can push calculations through a
  Runner instead. Each job carries its own context snapshot and a
  monotonically increasing identifier. The Runner introduces no new
  ordering concerns: jobs are independent, and staleness is the caller's
  call - compare JobResult.ID against the last submitted ID and drop
  anything older.
*/
package engine

import (
	"sync"
	"sync/atomic"
)

// JobResult pairs a finished calculation with the identifier of the
// submission that produced it.
type JobResult struct {
	ID     uint64
	Result *Result
}

type job struct {
	id  uint64
	ctx Context
}

// Runner executes calculations on a single background goroutine.
type Runner struct {
	jobs    chan job
	results chan JobResult
	lastID  atomic.Uint64

	closeOnce sync.Once
	done      chan struct{}
}

// NewRunner starts a runner. buffer sizes both channels; with a buffer of
// zero, Submit blocks until the worker picks the job up.
func NewRunner(buffer int) *Runner {
	r := &Runner{
		jobs:    make(chan job, buffer),
		results: make(chan JobResult, buffer),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer close(r.results)
	for j := range r.jobs {
		r.results <- JobResult{ID: j.id, Result: Calculate(j.ctx)}
	}
}

// Submit queues one calculation and returns its identifier. The context
// must be an independent snapshot; the caller must not mutate it while
// the job is in flight.
func (r *Runner) Submit(ctx Context) uint64 {
	id := r.lastID.Add(1)
	r.jobs <- job{id: id, ctx: ctx}
	return id
}

// LastID returns the identifier of the most recent submission. Results
// with a smaller ID are stale.
func (r *Runner) LastID() uint64 { return r.lastID.Load() }

// Results delivers finished jobs in completion order. The channel closes
// after Close once all queued jobs have drained.
func (r *Runner) Results() <-chan JobResult { return r.results }

// Close stops accepting jobs. Safe to call more than once.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.jobs)
		close(r.done)
	})
}
