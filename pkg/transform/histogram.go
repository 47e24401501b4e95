package transform

import (
	"sync/atomic"

	"github.com/jpfielding/greygrid.go/pkg/grid"
	"github.com/jpfielding/greygrid.go/pkg/parallel"
)

// Histogram counts samples per grey level, hist[v] = number of samples equal to v.
type Histogram [grid.MaxValue + 1]int

// Total is the number of samples counted.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Add sums o into h.
func (h *Histogram) Add(o *Histogram) {
	for v, c := range o {
		h[v] += c
	}
}

// Histogram counts the samples of img. Samples outside [0, MaxValue] are
// skipped. img is only read.
func (e *Engine) Histogram(img *grid.Image) Histogram {
	if e.aggregation == AggregateAtomic {
		return e.histogramAtomic(img)
	}
	return e.histogramPartial(img)
}

// histogramPartial fills one private histogram per worker and merges them
// once every worker has joined.
func (e *Engine) histogramPartial(img *grid.Image) Histogram {
	n := img.Size()
	partials := make([]Histogram, parallel.Workers(e.workers, n))
	workers := e.execute(OpHistogram, n, func(worker, start, end int) {
		local := &partials[worker]
		for row := start; row < end; row++ {
			for _, v := range img.Row(row) {
				if v >= 0 && v <= grid.MaxValue {
					local[v]++
				}
			}
		}
	})
	var hist Histogram
	for i := range partials {
		hist.Add(&partials[i])
	}
	e.done(OpHistogram, workers, n)
	return hist
}

// histogramAtomic increments shared bins with atomic adds.
func (e *Engine) histogramAtomic(img *grid.Image) Histogram {
	n := img.Size()
	var bins [grid.MaxValue + 1]atomic.Int64
	workers := e.execute(OpHistogram, n, func(_, start, end int) {
		for row := start; row < end; row++ {
			for _, v := range img.Row(row) {
				if v >= 0 && v <= grid.MaxValue {
					bins[v].Add(1)
				}
			}
		}
	})
	var hist Histogram
	for v := range bins {
		hist[v] = int(bins[v].Load())
	}
	e.done(OpHistogram, workers, n)
	return hist
}
