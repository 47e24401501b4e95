package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/jpfielding/greygrid.go/pkg/transform"
)

// Environment variables overlaid on the defaults.
const (
	EnvWorkers      = "GREYGRID_WORKERS"
	EnvOutDir       = "GREYGRID_OUT_DIR"
	EnvAggregation  = "GREYGRID_AGGREGATION"
	EnvEdgeSchedule = "GREYGRID_EDGE_SCHEDULE"
)

// Config holds the settings for one run
type Config struct {
	Workers      int
	OutDir       string
	Aggregation  string
	EdgeSchedule string
	// Preview, when set, is an extra rendered copy of an image result.
	Preview      string
	PreviewScale int
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Workers:      runtime.GOMAXPROCS(0),
		OutDir:       ".",
		Aggregation:  transform.AggregatePartial.String(),
		EdgeSchedule: transform.EdgeTwoPhase.String(),
		PreviewScale: 1,
	}
}

// FromEnv returns the defaults overlaid with any GREYGRID_* variables found
// through getenv (normally os.Getenv).
func FromEnv(getenv func(string) string) (*Config, error) {
	c := Default()
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvOutDir); v != "" {
		c.OutDir = v
	}
	if v := getenv(EnvAggregation); v != "" {
		c.Aggregation = v
	}
	if v := getenv(EnvEdgeSchedule); v != "" {
		c.EdgeSchedule = v
	}
	return c, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.OutDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if _, err := transform.ParseAggregation(c.Aggregation); err != nil {
		return err
	}
	if _, err := transform.ParseEdgeSchedule(c.EdgeSchedule); err != nil {
		return err
	}
	if c.PreviewScale < 1 {
		return fmt.Errorf("preview scale must be at least 1, got %d", c.PreviewScale)
	}
	return nil
}

// Engine converts the configuration into engine settings.
func (c *Config) Engine() (transform.Config, error) {
	if err := c.Validate(); err != nil {
		return transform.Config{}, err
	}
	agg, _ := transform.ParseAggregation(c.Aggregation)
	sched, _ := transform.ParseEdgeSchedule(c.EdgeSchedule)
	return transform.Config{
		Workers:      c.Workers,
		Aggregation:  agg,
		EdgeSchedule: sched,
	}, nil
}
