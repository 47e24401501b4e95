package transform

import (
	"math"

	"github.com/jpfielding/greygrid.go/pkg/grid"
)

// ThresholdLevel is the largest sample that thresholds to black.
const ThresholdLevel = 127

// Threshold binarizes img in place: samples above ThresholdLevel become
// MaxValue, everything else 0. Rows are independent.
func (e *Engine) Threshold(img *grid.Image) {
	n := img.Size()
	workers := e.execute(OpThreshold, n, func(_, start, end int) {
		for row := start; row < end; row++ {
			samples := img.Row(row)
			for col, v := range samples {
				if v > ThresholdLevel {
					samples[col] = grid.MaxValue
				} else {
					samples[col] = 0
				}
			}
		}
	})
	e.done(OpThreshold, workers, n)
}

// Flip mirrors img vertically in place. Only the top half of the rows is
// scheduled; the worker owning row r also owns its mirror size-1-r.
// The middle row of an odd sized image stays where it is.
func (e *Engine) Flip(img *grid.Image) {
	n := img.Size()
	half := n / 2
	workers := e.execute(OpFlip, half, func(_, start, end int) {
		for row := start; row < end; row++ {
			top, bottom := img.Row(row), img.Row(n-1-row)
			for col := range top {
				tmp := top[col]
				top[col] = bottom[col]
				bottom[col] = tmp
			}
		}
	})
	e.done(OpFlip, workers, half)
}

// EdgeDetect replaces every sample with EdgeValue computed on the original
// image. Values are staged in a scratch buffer and copied back after all of
// them are known, so no stencil ever reads an already updated neighbour.
func (e *Engine) EdgeDetect(img *grid.Image) {
	n := img.Size()
	scratch := make([]int, n*n)

	compute := func(parity int) func(worker, start, end int) {
		return func(_, start, end int) {
			for row := start; row < end; row++ {
				out := scratch[row*n : (row+1)*n]
				for col := range out {
					if parity >= 0 && (row+col)%2 != parity {
						continue
					}
					out[col] = EdgeValue(img, row, col)
				}
			}
		}
	}
	copyBack := func(_, start, end int) {
		for row := start; row < end; row++ {
			copy(img.Row(row), scratch[row*n:(row+1)*n])
		}
	}

	var workers int
	switch e.edgeSchedule {
	case EdgeCheckerboard:
		workers = e.execute(OpEdge, n, compute(0), compute(1), copyBack)
	default:
		workers = e.execute(OpEdge, n, compute(-1), copyBack)
	}
	e.done(OpEdge, workers, n)
}

// EdgeValue is the gradient magnitude at (row, col), rounded and clamped to
// MaxValue. Boundary cells are always 0. It reads the four direct neighbours.
func EdgeValue(img *grid.Image, row, col int) int {
	n := img.Size()
	if row == 0 || col == 0 || row == n-1 || col == n-1 {
		return 0
	}
	dy := img.Get(row-1, col) - img.Get(row+1, col)
	dx := img.Get(row, col-1) - img.Get(row, col+1)
	norm := int(math.Round(math.Sqrt(float64(dx*dx + dy*dy))))
	return min(norm, grid.MaxValue)
}
