package uploads

import (
	"errors"
	"sync"
)

var ErrQueueFull = errors.New("upload queue full")

// Pool is a fixed-size worker pool with a bounded queue, sized for fanning
// out independent outbound upload calls. Submit never blocks: when the queue
// is saturated the caller gets ErrQueueFull and decides what to do with the item.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(workers, queueCap int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueCap <= 0 {
		queueCap = workers
	}
	p := &Pool{tasks: make(chan func(), queueCap)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				t()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(t func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrQueueFull
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
