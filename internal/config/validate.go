package config

import (
	"fmt"

	"github.com/kvplot/kvplot/internal/errors"
	"github.com/kvplot/kvplot/internal/scale"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but kvplot only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest kvplot release.")
	}

	for i, src := range cfg.Sources {
		if err := validateSource(i, src); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Check the 'sources' section in your .kvplot.yaml.")
		}
	}

	if err := validateHistory(cfg.History); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'history' section in your .kvplot.yaml.")
	}

	if err := validateChart(cfg.Chart); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'chart' section in your .kvplot.yaml.")
	}

	if err := validateIngest(cfg.Ingest); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'ingest' section in your .kvplot.yaml.")
	}

	return nil
}

// validateSource checks a single producer entry.
func validateSource(i int, src SourceConfig) error {
	set := 0
	if src.Cmd != "" {
		set++
	}
	if src.Poll != "" {
		set++
	}
	if src.Pipe != "" {
		set++
	}

	if set == 0 {
		return fmt.Errorf("source %d needs one of 'cmd', 'poll', or 'pipe'", i+1)
	}
	if set > 1 {
		return fmt.Errorf("source %d has more than one of 'cmd', 'poll', and 'pipe' - pick one", i+1)
	}

	if src.Poll != "" && src.Interval < 0 {
		return fmt.Errorf("source %d poll interval can't be negative", i+1)
	}
	if src.Poll == "" && src.Interval != 0 {
		return fmt.Errorf("source %d sets 'interval' but isn't a 'poll' source", i+1)
	}

	return nil
}

// validateHistory checks the retention configuration.
func validateHistory(h HistoryConfig) error {
	if h.Capacity <= 0 {
		return fmt.Errorf("history.capacity needs to be positive (got %d)", h.Capacity)
	}
	return nil
}

// validateChart checks the view configuration.
func validateChart(c ChartConfig) error {
	if c.Window <= 0 {
		return fmt.Errorf("chart.window needs to be positive - try something like '30s' or '5m'")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("chart.tick needs to be positive - try something like '250ms'")
	}
	if c.Scale != "" {
		if _, err := scale.ParseMode(c.Scale); err != nil {
			return fmt.Errorf("chart.scale '%s' isn't valid - use 'linear' or 'asinh'", c.Scale)
		}
	}
	return nil
}

// validateIngest checks the line flow configuration.
func validateIngest(in IngestConfig) error {
	if in.BufferSize <= 0 {
		return fmt.Errorf("ingest.buffer_size needs to be positive (got %d)", in.BufferSize)
	}
	if in.DrainMax < 0 {
		return fmt.Errorf("ingest.drain_max can't be negative - use 0 for unlimited")
	}
	if in.Grace < 0 {
		return fmt.Errorf("ingest.grace can't be negative")
	}
	return nil
}
