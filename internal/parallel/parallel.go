// Package parallel splits read-only work over finalized models across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 256,
	}
}

// Chunks calls fn once per contiguous chunk [start, end) covering [0, n).
// Chunks run concurrently unless parallelism is disabled or n is below
// MinChunkSize, in which case fn is called once with [0, n).
func Chunks(n int, fn func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	size := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n).
func For(n int, f func(i int), cfg Config) {
	Chunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// Count returns how many i in [0, n) satisfy pred. Each chunk counts
// privately; pred must be safe for concurrent calls.
func Count(n int, pred func(i int) bool, cfg Config) int {
	var (
		mu    sync.Mutex
		total int
	)
	Chunks(n, func(start, end int) {
		local := 0
		for i := start; i < end; i++ {
			if pred(i) {
				local++
			}
		}
		mu.Lock()
		total += local
		mu.Unlock()
	}, cfg)
	return total
}
