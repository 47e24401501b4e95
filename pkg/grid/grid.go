package grid

import (
	"errors"
	"fmt"
	"slices"
)

// MaxValue is the largest greyscale sample ("white").
const MaxValue = 255

var ErrInvalidSize = errors.New("grid: size must be positive")

// Image is a square greyscale grid of samples.
// Samples are stored row-major in one contiguous buffer, idx = row*size + col.
//
// Image does no locking. Concurrent writers must own disjoint rows, and a cell
// must never be read and written at the same time.
type Image struct {
	size    int
	samples []int
}

// New allocates a zeroed size x size image
func New(size int) (*Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Image{
		size:    size,
		samples: make([]int, size*size),
	}, nil
}

// FromRows builds an image from a square set of rows, copying the values.
func FromRows(rows [][]int) (*Image, error) {
	img, err := New(len(rows))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != img.size {
			return nil, fmt.Errorf("grid: row %d has %d samples, want %d", r, len(row), img.size)
		}
		copy(img.Row(r), row)
	}
	return img, nil
}

// Size returns the width (and height) in pixels.
func (m *Image) Size() int {
	return m.size
}

// Get returns the sample at (row, col). Indices are not checked beyond the
// slice bounds; callers keep them in [0, Size()).
func (m *Image) Get(row, col int) int {
	return m.samples[row*m.size+col]
}

// Set stores the sample at (row, col).
func (m *Image) Set(row, col, val int) {
	m.samples[row*m.size+col] = val
}

// Row returns the samples of one row. The slice shares the image's backing
// buffer so writes through it are visible in the image.
func (m *Image) Row(row int) []int {
	start := row * m.size
	return m.samples[start : start+m.size : start+m.size]
}

// Samples returns the whole row-major buffer (shared, not copied).
func (m *Image) Samples() []int {
	return m.samples
}

// Resize reallocates the image as a zeroed size x size grid.
func (m *Image) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	m.size = size
	m.samples = make([]int, size*size)
	return nil
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	return &Image{
		size:    m.size,
		samples: slices.Clone(m.samples),
	}
}

// Equal reports whether both images have the same size and samples.
func (m *Image) Equal(o *Image) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.size == o.size && slices.Equal(m.samples, o.samples)
}

// MinMax returns the smallest and largest sample
func (m *Image) MinMax() (min, max int) {
	if len(m.samples) == 0 {
		return 0, 0
	}
	min, max = m.samples[0], m.samples[0]
	for _, val := range m.samples {
		if val < min {
			min = val
		}
		if val > max {
			max = val
		}
	}
	return
}
