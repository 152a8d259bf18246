// Package worker provides a worker pool for processing games in parallel.
package worker

import (
	"context"
	"sync"
)

// WorkItem is one unit of work.
type WorkItem[In any] struct {
	Value In
	Index int // Original index for tracking
}

// Result is the outcome of processing a WorkItem.
type Result[Out any] struct {
	Value Out
	Index int
	Err   error
}

// ProcessFunc processes a work item.
type ProcessFunc[In, Out any] func(ctx context.Context, item WorkItem[In]) Result[Out]

// settings holds the tunables shared by every pool type.
type settings struct {
	numWorkers int
	bufferSize int
}

// PoolOption configures a Pool.
type PoolOption func(*settings)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(s *settings) {
		if n >= 1 {
			s.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(s *settings) {
		if size >= 1 {
			s.bufferSize = size
		}
	}
}

// Pool manages a pool of workers. Items submitted after the context is
// cancelled are drained without processing.
type Pool[In, Out any] struct {
	settings
	ctx         context.Context
	workChan    chan WorkItem[In]
	resultChan  chan Result[Out]
	processFunc ProcessFunc[In, Out]
	wg          sync.WaitGroup
}

// NewPoolWithOptions creates a new worker pool using functional options.
// processFunc is required; other settings have sensible defaults.
// Default: 1 worker, buffer size of 10.
func NewPoolWithOptions[In, Out any](ctx context.Context, processFunc ProcessFunc[In, Out], opts ...PoolOption) *Pool[In, Out] {
	s := settings{numWorkers: 1, bufferSize: 10}
	for _, opt := range opts {
		opt(&s)
	}
	return &Pool[In, Out]{
		settings:    s,
		ctx:         ctx,
		workChan:    make(chan WorkItem[In], s.bufferSize),
		resultChan:  make(chan Result[Out], s.bufferSize),
		processFunc: processFunc,
	}
}

// Start starts the worker goroutines.
func (p *Pool[In, Out]) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes items from the work channel until it is closed.
func (p *Pool[In, Out]) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.ctx.Err() != nil {
			continue // Drain channel without processing
		}
		p.resultChan <- p.processFunc(p.ctx, item)
	}
}

// Submit submits a work item for processing.
// This may block if the work channel buffer is full.
func (p *Pool[In, Out]) Submit(item WorkItem[In]) {
	p.workChan <- item
}

// Close closes the work channel and waits for all workers to finish.
// After calling Close, the result channel will be closed when all workers are done.
func (p *Pool[In, Out]) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel for reading processed results.
func (p *Pool[In, Out]) Results() <-chan Result[Out] {
	return p.resultChan
}

// Map runs fn over items on numWorkers goroutines and returns one result
// per item in input order. Items skipped because ctx was cancelled carry
// ctx.Err().
func Map[In, Out any](ctx context.Context, items []In, numWorkers int, fn func(context.Context, In) (Out, error)) []Result[Out] {
	var process ProcessFunc[In, Out] = func(ctx context.Context, item WorkItem[In]) Result[Out] {
		v, err := fn(ctx, item.Value)
		return Result[Out]{Value: v, Index: item.Index, Err: err}
	}

	pool := NewPoolWithOptions(ctx, process, WithWorkers(numWorkers), WithBufferSize(numWorkers*2))
	pool.Start()
	go func() {
		for i, v := range items {
			pool.Submit(WorkItem[In]{Value: v, Index: i})
		}
		pool.Close()
	}()

	results := make([]Result[Out], len(items))
	done := make([]bool, len(items))
	for r := range pool.Results() {
		results[r.Index] = r
		done[r.Index] = true
	}
	for i := range results {
		if !done[i] {
			results[i] = Result[Out]{Index: i, Err: ctx.Err()}
		}
	}
	return results
}
