// Package worker provides the batch scheduler: a fixed-size goroutine pool
// executing one article alignment per job. Alignment is CPU-bound string
// comparison with no shared state between articles, so article-level
// parallelism is safe; the matcher's claiming loop inside each job stays
// sequential.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job.
type Result interface {
	Err() error
}

// Pool runs jobs on a fixed number of workers.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. A no-op after Shutdown.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Results exposes the result stream. Both channels are bounded, so the
// stream must be drained concurrently with submission: a full result buffer
// backs up the workers, then the job queue, and Submit blocks forever.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Wait closes the queue, blocks until every queued job has finished, and
// closes the result stream. Submission must be complete before calling it.
func (p *Pool) Wait() {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
}

// Shutdown cancels outstanding work and stops the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// ResultCollector accumulates results as they arrive.
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{results: make([]Result, 0)}
}

// Collect starts draining the stream into the collector. Call it before
// submitting any jobs; the returned channel closes once the stream does.
func (c *ResultCollector) Collect(ch <-chan Result) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range ch {
			c.Add(result)
		}
	}()
	return done
}

// Add records a result (thread-safe).
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns all collected results.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
