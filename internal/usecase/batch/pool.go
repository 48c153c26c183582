package batch

import (
	"context"
	"sync"
)

// Task scores and stores one pair.
type Task func(ctx context.Context) Result

// Result is what a worker reports back for a single pair.
type Result struct {
	Index   int64
	Outcome Outcome
	Err     error
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. Tasks that
// already started always deliver their result, even after ctx is cancelled,
// so the consumer sees every finished pair.
type WorkerPool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	once    sync.Once
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// Submit blocks until a worker slot is free. It returns false when ctx is
// done before the task was queued.
func (p *WorkerPool) Submit(ctx context.Context, t Task) bool {
	if t == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case p.tasks <- t:
		return true
	}
}

// Close signals that no more tasks will be submitted.
func (p *WorkerPool) Close() {
	p.once.Do(func() { close(p.tasks) })
}

// Run starts the workers. The returned channel is closed once every worker
// has exited, which happens after Close or when ctx is done. The caller must
// drain it.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers*4)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					out <- t(ctx)
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
