package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// RangeFunc processes the half-open index range [start, end).
type RangeFunc func(start, end int)

type Pool struct {
	workers int
	work    chan func()
	wg      sync.WaitGroup
	stopped atomic.Bool
	stop    func()
}

// Start spawns numWorkers goroutines, GOMAXPROCS if numWorkers < 1. A pool
// of one worker runs everything inline.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		stop:    func() {},
	}

	if numWorkers > 1 {
		pool.work = make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.work {
					f()
				}
			})
		}

		pool.stop = sync.OnceFunc(func() {
			pool.stopped.Store(true)
			close(pool.work)
			pool.wg.Wait()
		})
	}

	return pool
}

func (p *Pool) Workers() int {
	return p.workers
}

// Rows splits [0, n) into contiguous ranges, one per worker, and blocks
// until fn returned for all of them. Rows may be called concurrently; each
// call waits only for its own ranges.
func (p *Pool) Rows(n int, fn RangeFunc) {
	if n <= 0 {
		return
	}

	workers := min(p.workers, n)
	if (workers == 1) || p.stopped.Load() {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var barrier sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		barrier.Add(1)
		p.work <- func() {
			defer barrier.Done()
			fn(start, end)
		}
	}
	barrier.Wait()
}

// Stop waits for queued work and releases the workers. It must not race
// with Rows; Rows called afterwards runs sequentially.
func (p *Pool) Stop() {
	p.stop()
}
