package scale

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvplot/kvplot/internal/series"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// window builds a series window with one point per second starting at t0.
func window(name string, values ...float64) SeriesWindow {
	w := SeriesWindow{Name: name}
	for i, v := range values {
		w.Points = append(w.Points, series.Point{At: t0.Add(time.Duration(i) * time.Second), Value: v})
	}
	return w
}

func TestModeCycle(t *testing.T) {
	assert.Equal(t, Asinh, Linear.Next())
	assert.Equal(t, Linear, Asinh.Next())
	assert.Equal(t, "linear", Linear.String())
	assert.Equal(t, "asinh", Asinh.String())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("asinh")
	require.NoError(t, err)
	assert.Equal(t, Asinh, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Linear, m)

	_, err = ParseMode("log10")
	assert.Error(t, err)
}

func TestLinearNormalization(t *testing.T) {
	res := Transform(
		[]SeriesWindow{window("cpu", 0, 50, 100)},
		t0, t0.Add(3*time.Second), 3, Linear,
	)

	cols := res.Columns["cpu"]
	require.Len(t, cols, 3)
	require.True(t, cols[0].Filled)

	// Minimum maps to the bottom, maximum to the top.
	assert.Equal(t, 0.0, cols[0].Norm)
	assert.Equal(t, 0.5, cols[1].Norm)
	assert.Equal(t, 1.0, cols[2].Norm)
	assert.Equal(t, 0.0, res.Min)
	assert.Equal(t, 100.0, res.Max)
}

func TestDegenerateDomainMapsToMidline(t *testing.T) {
	res := Transform(
		[]SeriesWindow{window("flat", 7, 7, 7)},
		t0, t0.Add(3*time.Second), 3, Linear,
	)

	for _, c := range res.Columns["flat"] {
		require.True(t, c.Filled)
		assert.Equal(t, 0.5, c.Norm)
	}
	assert.Equal(t, res.Min, res.Max)
}

func TestUnionDomainAcrossSeries(t *testing.T) {
	res := Transform(
		[]SeriesWindow{
			window("low", 0, 10),
			window("high", 90, 100),
		},
		t0, t0.Add(2*time.Second), 2, Linear,
	)

	// All series share one axis spanning the union [0, 100].
	assert.Equal(t, 0.0, res.Columns["low"][0].Norm)
	assert.Equal(t, 0.1, res.Columns["low"][1].Norm)
	assert.Equal(t, 0.9, res.Columns["high"][0].Norm)
	assert.Equal(t, 1.0, res.Columns["high"][1].Norm)
}

func TestAsinhPreservesOrderAndSign(t *testing.T) {
	res := Transform(
		[]SeriesWindow{window("v", -1000, -1, 0, 1, 1000)},
		t0, t0.Add(5*time.Second), 5, Asinh,
	)

	cols := res.Columns["v"]
	require.Len(t, cols, 5)

	// Monotonic input stays monotonic after the transform.
	for i := 1; i < len(cols); i++ {
		assert.Greater(t, cols[i].Norm, cols[i-1].Norm)
	}
	assert.Equal(t, 0.0, cols[0].Norm)
	assert.Equal(t, 1.0, cols[4].Norm)

	// Small values stay visually distinguishable: the gap between -1
	// and 1 is far larger than a linear scale would give them.
	linear := Transform(
		[]SeriesWindow{window("v", -1000, -1, 0, 1, 1000)},
		t0, t0.Add(5*time.Second), 5, Linear,
	)
	asinhGap := cols[3].Norm - cols[1].Norm
	linearGap := linear.Columns["v"][3].Norm - linear.Columns["v"][1].Norm
	assert.Greater(t, asinhGap, linearGap*10)
}

func TestDownsampleKeepsMostRecentPerBucket(t *testing.T) {
	// 6 samples over 6 seconds mapped onto 3 columns: each column's
	// bucket covers 2 seconds and the later sample wins.
	res := Transform(
		[]SeriesWindow{window("v", 1, 2, 3, 4, 5, 6)},
		t0, t0.Add(6*time.Second), 3, Linear,
	)

	cols := res.Columns["v"]
	require.Len(t, cols, 3)
	assert.Equal(t, 2.0, cols[0].Raw)
	assert.Equal(t, 4.0, cols[1].Raw)
	assert.Equal(t, 6.0, cols[2].Raw)

	// Trend monotonicity is preserved through downsampling.
	for i := 1; i < len(cols); i++ {
		assert.Greater(t, cols[i].Raw, cols[i-1].Raw)
	}
}

func TestSparseDataLeavesGaps(t *testing.T) {
	w := SeriesWindow{Name: "v", Points: []series.Point{
		{At: t0, Value: 1},
		{At: t0.Add(9 * time.Second), Value: 2},
	}}
	res := Transform([]SeriesWindow{w}, t0, t0.Add(10*time.Second), 10, Linear)

	cols := res.Columns["v"]
	assert.True(t, cols[0].Filled)
	assert.True(t, cols[9].Filled)
	filled := 0
	for _, c := range cols {
		if c.Filled {
			filled++
		}
	}
	assert.Equal(t, 2, filled)
}

func TestOutOfWindowAndNonFiniteSkipped(t *testing.T) {
	w := SeriesWindow{Name: "v", Points: []series.Point{
		{At: t0.Add(-time.Second), Value: 99},
		{At: t0, Value: 1},
		{At: t0.Add(time.Second), Value: math.NaN()},
		{At: t0.Add(2 * time.Second), Value: math.Inf(1)},
		{At: t0.Add(10 * time.Second), Value: 99},
	}}
	res := Transform([]SeriesWindow{w}, t0, t0.Add(3*time.Second), 3, Linear)

	cols := res.Columns["v"]
	assert.True(t, cols[0].Filled)
	assert.False(t, cols[1].Filled)
	assert.False(t, cols[2].Filled)
	assert.Equal(t, 1.0, res.Min)
	assert.Equal(t, 1.0, res.Max)
}

func TestEmptyInputs(t *testing.T) {
	res := Transform(nil, t0, t0.Add(time.Second), 10, Linear)
	assert.Empty(t, res.Columns)

	res = Transform([]SeriesWindow{window("v", 1)}, t0, t0, 10, Linear)
	assert.Empty(t, res.Columns)

	res = Transform([]SeriesWindow{window("v", 1)}, t0, t0.Add(time.Second), 0, Linear)
	assert.Empty(t, res.Columns)
}
