package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .kvplot.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Sources to start when no --cmd/--poll/--pipe flags are given.
	Sources []SourceConfig `yaml:"sources" mapstructure:"sources"`

	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Chart   ChartConfig   `yaml:"chart" mapstructure:"chart"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
}

// SourceConfig defines a single line producer. Exactly one of Cmd,
// Poll, or Pipe should be set.
type SourceConfig struct {
	// Cmd is a long-running command whose stdout is consumed line by line.
	Cmd string `yaml:"cmd" mapstructure:"cmd"`

	// Poll is a command re-invoked on an interval, consuming each run's stdout.
	Poll string `yaml:"poll" mapstructure:"poll"`

	// Interval between Poll invocations.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Pipe is a path to a FIFO or file read line by line.
	Pipe string `yaml:"pipe" mapstructure:"pipe"`
}

// HistoryConfig controls how many samples each series retains.
type HistoryConfig struct {
	// Capacity is the per-series ring buffer size in samples.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// ChartConfig controls the rendered view.
type ChartConfig struct {
	// Window is the visible time span.
	Window time.Duration `yaml:"window" mapstructure:"window"`

	// Tick is the redraw interval.
	Tick time.Duration `yaml:"tick" mapstructure:"tick"`

	// Scale mode: "linear" or "asinh".
	Scale string `yaml:"scale" mapstructure:"scale"`
}

// IngestConfig controls how lines flow from producers to the chart.
type IngestConfig struct {
	// FreezeOnPause stops consuming producer output while the view is paused.
	// Producers keep running either way.
	FreezeOnPause bool `yaml:"freeze_on_pause" mapstructure:"freeze_on_pause"`

	// BufferSize is the producer line buffer. When full, oldest lines drop.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size"`

	// DrainMax caps how many buffered lines a single tick consumes.
	// Zero means unlimited.
	DrainMax int `yaml:"drain_max" mapstructure:"drain_max"`

	// Grace is how long to wait for producers during shutdown.
	Grace time.Duration `yaml:"grace" mapstructure:"grace"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Sources: nil,
		History: HistoryConfig{
			Capacity: 3600,
		},
		Chart: ChartConfig{
			Window: time.Minute,
			Tick:   250 * time.Millisecond,
			Scale:  "linear",
		},
		Ingest: IngestConfig{
			FreezeOnPause: false,
			BufferSize:    4096,
			DrainMax:      0,
			Grace:         2 * time.Second,
		},
	}
}
