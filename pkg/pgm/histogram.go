package pgm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jpfielding/greygrid.go/pkg/grid"
	"github.com/jpfielding/greygrid.go/pkg/transform"
)

// EncodeHistogram writes "bin<TAB>count" lines for bins 0..MaxValue-1.
// The top bin is counted in memory but not written, matching the plotting
// script's expected row count.
func EncodeHistogram(w io.Writer, hist *transform.Histogram) error {
	bw := bufio.NewWriter(w)
	for bin := range grid.MaxValue {
		if _, err := fmt.Fprintf(bw, "%d\t%d\n", bin, hist[bin]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteHistogramFile writes hist to path.
func WriteHistogramFile(path string, hist *transform.Histogram) error {
	return writeFile(path, func(w io.Writer) error { return EncodeHistogram(w, hist) })
}
