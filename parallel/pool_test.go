package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStart(t *testing.T) {
	pool := Start(4)
	defer pool.Stop()
	assert.Equal(t, 4, pool.Workers())

	def := Start(0)
	defer def.Stop()
	assert.Equal(t, runtime.GOMAXPROCS(0), def.Workers())
}

func TestRows(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8} {
		for _, n := range []int{1, 2, 7, 100} {
			pool := Start(workers)

			counts := make([]int32, n)
			var calls atomic.Int32
			pool.Rows(n, func(start, end int) {
				calls.Add(1)
				for i := start; i < end; i++ {
					atomic.AddInt32(&counts[i], 1)
				}
			})
			pool.Stop()

			for i, c := range counts {
				assert.Equal(t, int32(1), c, "workers=%d n=%d index=%d", workers, n, i)
			}
			assert.LessOrEqual(t, int(calls.Load()), min(workers, n))
		}
	}
}

func TestRowsEmpty(t *testing.T) {
	pool := Start(2)
	defer pool.Stop()

	called := false
	pool.Rows(0, func(int, int) { called = true })
	assert.False(t, called)
}

func TestRowsConcurrentCallers(t *testing.T) {
	pool := Start(3)
	defer pool.Stop()

	const callers, n = 5, 50
	results := make([][]int, callers)

	var wg sync.WaitGroup
	for c := range callers {
		results[c] = make([]int, n)
		wg.Go(func() {
			pool.Rows(n, func(start, end int) {
				for i := start; i < end; i++ {
					results[c][i] = i * c
				}
			})
		})
	}
	wg.Wait()

	for c := range callers {
		for i := range n {
			assert.Equal(t, i*c, results[c][i])
		}
	}
}

func TestRowsAfterStop(t *testing.T) {
	pool := Start(4)
	pool.Stop()
	pool.Stop()

	var calls int
	pool.Rows(10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}
