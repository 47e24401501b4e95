// Package pgm reads and writes greyscale ASCII ("P2") portable graymap files
// and the tab separated histogram file.
//
// Samples are laid out row-major: the first size values in the file are row 0,
// columns 0..size-1. Writing uses the same order, one line per row.
package pgm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jpfielding/greygrid.go/pkg/grid"
)

// Magic identifies the greyscale ASCII format.
const Magic = "P2"

// MaxSize bounds the width accepted by Decode before any allocation.
const MaxSize = 1 << 15

var (
	ErrFormat    = errors.New("pgm: file not greyscale ASCII pgm")
	ErrNotSquare = errors.New("pgm: image is not square")
	ErrMaxValue  = fmt.Errorf("pgm: maximum grey scale value is not %d", grid.MaxValue)
	ErrTruncated = errors.New("pgm: truncated pixel data")
	ErrTooLarge  = fmt.Errorf("pgm: image larger than %d pixels wide", MaxSize)
)

// Header is the parsed preamble of a P2 file.
type Header struct {
	Width    int
	Height   int
	MaxValue int
}

// Decode reads a square P2 image with a maximum value of grid.MaxValue.
// Sample values are taken as written; range policy belongs to the caller.
func Decode(r io.Reader) (*grid.Image, error) {
	tr := newTokenReader(r)

	magic, err := tr.next()
	if err != nil || magic != Magic {
		return nil, ErrFormat
	}

	var hdr Header
	for _, dst := range []*int{&hdr.Width, &hdr.Height} {
		if *dst, err = tr.nextInt(); err != nil {
			return nil, fmt.Errorf("%w: bad dimensions: %w", ErrFormat, err)
		}
	}
	if hdr.Width != hdr.Height {
		return nil, fmt.Errorf("%w (height=%d but width=%d)", ErrNotSquare, hdr.Height, hdr.Width)
	}
	if hdr.Width > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrTooLarge, hdr.Width)
	}
	if hdr.MaxValue, err = tr.nextInt(); err != nil {
		return nil, fmt.Errorf("%w: bad maximum value: %w", ErrFormat, err)
	}
	if hdr.MaxValue != grid.MaxValue {
		return nil, fmt.Errorf("%w (got %d)", ErrMaxValue, hdr.MaxValue)
	}

	img, err := grid.New(hdr.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	samples := img.Samples()
	for i := range samples {
		v, err := tr.nextInt()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: got %d of %d samples", ErrTruncated, i, len(samples))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %w", ErrFormat, i, err)
		}
		samples[i] = v
	}
	return img, nil
}

// Encode writes img as P2, one line per row.
func Encode(w io.Writer, img *grid.Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d %d\n%d\n", Magic, img.Size(), img.Size(), grid.MaxValue)
	buf := make([]byte, 0, 4*img.Size())
	for row := range img.Size() {
		buf = buf[:0]
		for col, v := range img.Row(row) {
			if col > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(v), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFile opens and decodes the image at path.
func ReadFile(path string) (*grid.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image '%s' for reading: %w", path, err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// WriteFile encodes img to path, replacing any existing file.
func WriteFile(path string, img *grid.Image) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, img) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open the file '%s' for writing: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed writing '%s': %w", path, err)
	}
	return f.Close()
}
