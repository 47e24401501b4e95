package transform

import (
	"fmt"
	"strconv"
)

// Op selects one of the grid operations. The numeric values are the
// command line selectors.
type Op int

const (
	OpThreshold Op = iota + 1
	OpFlip
	OpEdge
	OpHistogram
)

// Ops lists every operation in selector order.
var Ops = []Op{OpThreshold, OpFlip, OpEdge, OpHistogram}

// ParseOp accepts exactly one selector digit, "1" through "4". Signs,
// padding and operation names are rejected.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if s == strconv.Itoa(int(op)) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("option number '%s' invalid", s)
}

func (o Op) String() string {
	switch o {
	case OpThreshold:
		return "threshold"
	case OpFlip:
		return "flip"
	case OpEdge:
		return "edge"
	case OpHistogram:
		return "histogram"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Description is the one line help text shown in usage.
func (o Op) Description() string {
	switch o {
	case OpThreshold:
		return "save a thresholded version of the image"
	case OpFlip:
		return "save a vertically flipped image"
	case OpEdge:
		return "save an edge image that highlights edges in the original"
	case OpHistogram:
		return "save a histogram of grey scale values in the image"
	}
	return ""
}

// OutputName is the default file an operation's result is written to.
func (o Op) OutputName() string {
	switch o {
	case OpThreshold:
		return "threshold.pgm"
	case OpFlip:
		return "flipped.pgm"
	case OpEdge:
		return "edge.pgm"
	case OpHistogram:
		return "histogram.dat"
	}
	return ""
}
