// Package scale maps buffered series values and a time window into
// normalized screen-space columns.
package scale

import (
	"fmt"
	"math"
	"time"

	"github.com/kvplot/kvplot/internal/series"
)

// Mode selects the function applied to raw values before normalization.
// It is a single global toggle applied uniformly to all series.
type Mode int

const (
	// Linear plots raw values.
	Linear Mode = iota
	// Asinh plots asinh(v), compressing large dynamic range while
	// keeping small and negative values visually distinguishable.
	Asinh
)

// String returns the mode name as shown in the legend and config.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Asinh:
		return "asinh"
	default:
		return "linear"
	}
}

// Next cycles to the next scale mode.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % 2)
}

// ParseMode parses a mode name from config or flags.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "asinh":
		return Asinh, nil
	default:
		return Linear, fmt.Errorf("unknown scale mode %q (want linear or asinh)", s)
	}
}

// Column is one screen column of a transformed series.
// Norm is in [0, 1] (0 = bottom of the chart); Raw is the untransformed
// value shown in cursor readouts. Columns without a sample in their
// time bucket have Filled == false.
type Column struct {
	Raw    float64
	Norm   float64
	Filled bool
}

// SeriesWindow is the visible slice of one series, as returned by the
// store for the active window.
type SeriesWindow struct {
	Name   string
	Points []series.Point
}

// Result is the transformed view of all visible series.
type Result struct {
	// Columns holds cols entries per series, keyed by series name.
	Columns map[string][]Column
	// Min and Max are the raw value domain of the visible data, used
	// for axis labels. Equal when the window is degenerate.
	Min, Max float64
}

// Transform distributes each series' visible samples across cols screen
// columns and normalizes values to [0, 1] under the given mode.
//
// Horizontal mapping buckets samples by timestamp within [from, to);
// when a bucket holds more than one sample the most recent wins,
// favoring freshness over smoothing. Vertical mapping applies the mode
// transform, then normalizes over the union of visible values across
// all series so every trace shares one axis. A degenerate domain
// (min == max) maps every value to the 0.5 midline.
func Transform(windows []SeriesWindow, from, to time.Time, cols int, mode Mode) Result {
	res := Result{Columns: make(map[string][]Column, len(windows))}
	if cols <= 0 || !to.After(from) {
		return res
	}

	span := to.Sub(from)

	// Bucket per column, last sample wins.
	for _, w := range windows {
		columns := make([]Column, cols)
		for _, p := range w.Points {
			if !finite(p.Value) {
				continue
			}
			if p.At.Before(from) || !p.At.Before(to) {
				continue
			}
			col := int(float64(cols) * float64(p.At.Sub(from)) / float64(span))
			if col >= cols {
				col = cols - 1
			}
			columns[col] = Column{Raw: p.Value, Filled: true}
		}
		res.Columns[w.Name] = columns
	}

	// Union domain of transformed values across all visible series.
	minT, maxT := math.Inf(1), math.Inf(-1)
	minRaw, maxRaw := math.Inf(1), math.Inf(-1)
	for _, columns := range res.Columns {
		for _, c := range columns {
			if !c.Filled {
				continue
			}
			t := apply(mode, c.Raw)
			minT = math.Min(minT, t)
			maxT = math.Max(maxT, t)
			minRaw = math.Min(minRaw, c.Raw)
			maxRaw = math.Max(maxRaw, c.Raw)
		}
	}
	if math.IsInf(minT, 1) {
		// No visible samples at all.
		return res
	}
	res.Min, res.Max = minRaw, maxRaw

	for _, columns := range res.Columns {
		for i := range columns {
			if !columns[i].Filled {
				continue
			}
			columns[i].Norm = normalize(apply(mode, columns[i].Raw), minT, maxT)
		}
	}

	return res
}

// apply transforms one raw value under the mode.
func apply(mode Mode, v float64) float64 {
	if mode == Asinh {
		return math.Asinh(v)
	}
	return v
}

// normalize maps v into [0, 1] given the domain bounds.
// A degenerate domain maps to a fixed midline rather than dividing by zero.
func normalize(v, minV, maxV float64) float64 {
	if maxV > minV {
		return (v - minV) / (maxV - minV)
	}
	return 0.5
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
