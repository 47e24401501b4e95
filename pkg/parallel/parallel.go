// Package parallel runs fork-join loops over a range of rows.
//
// Each call splits [0, n) into contiguous chunks, hands each chunk to its own
// goroutine and blocks until every chunk has returned. No goroutines outlive
// the call.
//
//	parallel.For(workers, img.Size(), func(worker, start, end int) {
//	    for row := start; row < end; row++ {
//	        processRow(row)
//	    }
//	})
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns the number of chunks For will use for n items.
// workers <= 0 means GOMAXPROCS. The result is never larger than n.
func Workers(workers, n int) int {
	if n <= 0 {
		return 0
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return min(workers, n)
}

// For executes fn over [0, n) split into at most `workers` contiguous chunks.
// fn receives a worker index, unique within this call and less than
// Workers(workers, n), and the half-open range [start, end) it owns.
// Blocks until all chunks complete.
func For(workers, n int, fn func(worker, start, end int)) {
	workers = Workers(workers, n)
	if workers == 0 {
		return
	}
	if workers == 1 {
		fn(0, 0, n)
		return
	}

	// spread the remainder over the first chunks so sizes differ by at most one
	chunk, extra := n/workers, n%workers

	var wg sync.WaitGroup
	wg.Add(workers)
	start := 0
	for w := range workers {
		end := start + chunk
		if w < extra {
			end++
		}
		go func(w, start, end int) {
			defer wg.Done()
			fn(w, start, end)
		}(w, start, end)
		start = end
	}
	wg.Wait()
}
