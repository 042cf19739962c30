// Package parallel runs index-range maps across a fixed set of goroutines.
//
// Stages hand the pool a function over a half-open index range. The function
// must read only shared input and write only to the slots of its own range,
// so no locking is needed inside it. For returns after every index has been
// processed, which is the barrier between pipeline stages.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultGrain is the minimum number of indices handed to one task.
const DefaultGrain = 64

// Pool is a fixed set of worker goroutines.
// A nil *Pool is valid and runs everything on the calling goroutine.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	grain   int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// dispatch is held for reading while For enqueues and for writing by Close,
	// so nothing is queued after the workers start draining.
	dispatch sync.RWMutex
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used. If grain is 0 or
// negative, DefaultGrain is used.
func NewPool(workers, grain int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if grain <= 0 {
		grain = DefaultGrain
	}

	p := &Pool{
		workers: workers,
		grain:   grain,
		queue:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			work()
		}
	}
}

// drain executes whatever is left in the queue.
func (p *Pool) drain() {
	for {
		select {
		case work := <-p.queue:
			work()
		default:
			return
		}
	}
}

// For calls fn over [0, n) split into contiguous ranges and waits for all of
// them. Ranges are disjoint and cover every index exactly once.
func (p *Pool) For(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.workers == 1 || n <= p.grain {
		fn(0, n)
		return
	}

	p.dispatch.RLock()
	if !p.running.Load() {
		p.dispatch.RUnlock()
		fn(0, n)
		return
	}

	chunk := max(p.grain, (n+p.workers*4-1)/(p.workers*4))

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		p.queue <- func() {
			defer wg.Done()
			fn(lo, hi)
		}
	}
	p.dispatch.RUnlock()
	wg.Wait()
}

// ForEach calls fn for every index in [0, n).
func (p *Pool) ForEach(n int, fn func(i int)) {
	p.For(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}

// Close waits for queued work and stops the workers. After Close, For runs
// on the calling goroutine. Close is safe to call multiple times.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.dispatch.Lock()
	defer p.dispatch.Unlock()
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}
