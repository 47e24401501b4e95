// Package transform applies the greyscale grid operations in parallel.
//
// Every operation partitions the image by rows: a row belongs to exactly one
// worker, which walks its columns in order. Operations are fork-join; they
// return only after every worker has finished, so the image is never observed
// half transformed.
package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpfielding/greygrid.go/pkg/grid"
	"github.com/jpfielding/greygrid.go/pkg/parallel"
)

// Aggregation selects how the histogram combines per-worker counts.
type Aggregation int

const (
	// AggregatePartial gives each worker a private histogram, summed after the join.
	AggregatePartial Aggregation = iota
	// AggregateAtomic increments shared bins with atomic adds.
	AggregateAtomic
)

func (a Aggregation) String() string {
	switch a {
	case AggregatePartial:
		return "partial"
	case AggregateAtomic:
		return "atomic"
	}
	return fmt.Sprintf("Aggregation(%d)", int(a))
}

func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "partial":
		return AggregatePartial, nil
	case "atomic":
		return AggregateAtomic, nil
	}
	return 0, fmt.Errorf("unknown aggregation %q (partial|atomic)", s)
}

// EdgeSchedule selects how edge values are computed into the scratch buffer.
type EdgeSchedule int

const (
	// EdgeTwoPhase computes every cell in one pass, then copies back.
	EdgeTwoPhase EdgeSchedule = iota
	// EdgeCheckerboard computes cells with even (row+col) first, then odd,
	// then copies back.
	EdgeCheckerboard
)

func (s EdgeSchedule) String() string {
	switch s {
	case EdgeTwoPhase:
		return "two-phase"
	case EdgeCheckerboard:
		return "checkerboard"
	}
	return fmt.Sprintf("EdgeSchedule(%d)", int(s))
}

func ParseEdgeSchedule(s string) (EdgeSchedule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "two-phase", "twophase":
		return EdgeTwoPhase, nil
	case "checkerboard":
		return EdgeCheckerboard, nil
	}
	return 0, fmt.Errorf("unknown edge schedule %q (two-phase|checkerboard)", s)
}

// Phase is a step of the single-shot operation pipeline.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePartitioned
	PhaseExecuting
	PhaseJoined
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePartitioned:
		return "partitioned"
	case PhaseExecuting:
		return "executing"
	case PhaseJoined:
		return "joined"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Config holds the engine settings
type Config struct {
	// Workers is the degree of parallelism; <= 0 means GOMAXPROCS.
	Workers      int
	Aggregation  Aggregation
	EdgeSchedule EdgeSchedule
	// Logger receives phase transitions at debug level; nil uses slog.Default().
	Logger *slog.Logger
	// OnPhase, when set, is called synchronously on every phase transition.
	OnPhase func(op Op, phase Phase)
}

// Engine runs the grid operations. An Engine holds no per-image state and
// may be reused, but one image must not be handed to two operations at once.
type Engine struct {
	workers      int
	aggregation  Aggregation
	edgeSchedule EdgeSchedule
	logger       *slog.Logger
	onPhase      func(op Op, phase Phase)
}

// New creates an Engine from cfg
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		workers:      cfg.Workers,
		aggregation:  cfg.Aggregation,
		edgeSchedule: cfg.EdgeSchedule,
		logger:       logger,
		onPhase:      cfg.OnPhase,
	}
}

// Workers returns the configured parallelism.
func (e *Engine) Workers() int {
	return e.workers
}

// Apply runs op on img. Image operations transform img in place and return a
// nil histogram.
func (e *Engine) Apply(op Op, img *grid.Image) (*Histogram, error) {
	if img == nil {
		return nil, fmt.Errorf("transform: nil image")
	}
	switch op {
	case OpThreshold:
		e.Threshold(img)
	case OpFlip:
		e.Flip(img)
	case OpEdge:
		e.EdgeDetect(img)
	case OpHistogram:
		hist := e.Histogram(img)
		return &hist, nil
	default:
		return nil, fmt.Errorf("transform: unknown operation %d", int(op))
	}
	return nil, nil
}

func (e *Engine) phase(op Op, p Phase, workers, rows int) {
	e.logger.Debug("transform phase",
		"op", op.String(),
		"phase", p.String(),
		"workers", workers,
		"rows", rows,
	)
	if e.onPhase != nil {
		e.onPhase(op, p)
	}
}

// execute partitions [0, rows) across the workers and runs each pass as its
// own fork-join, so a pass only starts once the previous one has joined.
// It returns the worker count used; the caller finishes with PhaseDone.
func (e *Engine) execute(op Op, rows int, passes ...func(worker, start, end int)) int {
	e.phase(op, PhaseIdle, 0, rows)
	workers := parallel.Workers(e.workers, rows)
	e.phase(op, PhasePartitioned, workers, rows)
	e.phase(op, PhaseExecuting, workers, rows)
	for _, pass := range passes {
		parallel.For(workers, rows, pass)
	}
	e.phase(op, PhaseJoined, workers, rows)
	return workers
}

func (e *Engine) done(op Op, workers, rows int) {
	e.phase(op, PhaseDone, workers, rows)
}
