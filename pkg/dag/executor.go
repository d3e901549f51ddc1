package dag

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
)

// Executor runs a graph.
type Executor struct {
	graph      *Graph
	workers    int
	retryDelay time.Duration
	observers  []func(Result)
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the number of tasks allowed to run at the same time.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRetryDelay sets the pause between attempts of a failing task.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.retryDelay = d
		}
	}
}

// WithObserver registers a function called once per finished task. It is
// called from worker goroutines and must be safe for concurrent use.
func WithObserver(fn func(Result)) Option {
	return func(e *Executor) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// NewExecutor creates an executor of the graph. By default it uses 4
// workers and waits one second between attempts.
func NewExecutor(g *Graph, opts ...Option) *Executor {
	res := &Executor{
		graph:      g,
		workers:    4,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Run executes all tasks respecting their dependencies. It returns nil
// when every task succeeded. Otherwise it returns the first *TaskError and
// tasks that did not start yet are never started.
func (e *Executor) Run(ctx context.Context) error {
	g := e.graph
	if g.Len() == 0 {
		return nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)

	// buffered for every task so that workers never block on it
	done := make(chan int, g.Len())
	launch := func(i int) {
		eg.Go(func() error {
			if err := e.runTask(gctx, g.tasks[i]); err != nil {
				return err
			}
			done <- i
			return nil
		})
	}

	indeg := g.indegrees()
	for i, d := range indeg {
		if d == 0 {
			launch(i)
		}
	}

	for remaining := g.Len(); remaining > 0; {
		select {
		case i := <-done:
			remaining--
			for _, c := range g.dependents[i] {
				indeg[c]--
				if indeg[c] == 0 {
					launch(c)
				}
			}
		case <-gctx.Done():
			if err := eg.Wait(); err != nil {
				return err
			}
			return CancelledError(ctx.Err())
		}
	}
	return eg.Wait()
}

// Permanent marks an error that another attempt cannot fix. The task
// fails at once and reports err itself.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

func (e *Executor) runTask(ctx context.Context, t Task) error {
	if err := ctx.Err(); err != nil {
		return &TaskError{Task: t.Name, Err: err}
	}

	var attempts int
	start := time.Now()
	op := func() (struct{}, error) {
		attempts++
		return struct{}{}, t.Run(ctx)
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(e.retryDelay)),
		backoff.WithMaxTries(uint(max(t.Retries, 0)+1)),
	)

	res := Result{
		Name:     t.Name,
		Attempts: attempts,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Err = &TaskError{Task: t.Name, Attempts: attempts, Err: err}
	}
	for _, fn := range e.observers {
		fn(res)
	}
	return res.Err
}
