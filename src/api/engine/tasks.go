package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

const taskTimeout = 30 * time.Second

// TaskPool runs fire-and-forget side effects (backfill persistence,
// notification dispatch) on a bounded set of workers. Failures are logged
// and swallowed; they never reach the request path.
type TaskPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewTaskPool(size int) *TaskPool {
	if size <= 0 {
		size = 4
	}
	return &TaskPool{sem: make(chan struct{}, size)}
}

// Submit schedules fn on the pool. The task gets its own timeout-bounded
// context so request cancellation does not abort an already-accepted write.
func (p *TaskPool) Submit(name string, fn func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("task %s: %v", name, err)
		}
	}()
}

// Wait blocks until all submitted tasks finish. Used on shutdown and in
// tests.
func (p *TaskPool) Wait() {
	p.wg.Wait()
}
