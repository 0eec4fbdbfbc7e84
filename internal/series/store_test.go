package series

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// sampleAt builds a sample n seconds after the test epoch.
func sampleAt(name string, value float64, n int) Sample {
	return Sample{Name: name, Value: value, At: t0.Add(time.Duration(n) * time.Second)}
}

func TestAppendCreatesSeriesLazily(t *testing.T) {
	s := NewStore(10)
	assert.Empty(t, s.Names())

	s.Append(sampleAt("cpu", 1, 0))
	s.Append(sampleAt("mem", 2, 1))
	s.Append(sampleAt("cpu", 3, 2))

	assert.Equal(t, []string{"cpu", "mem"}, s.Names())
	assert.Equal(t, 2, s.Len("cpu"))
	assert.Equal(t, 1, s.Len("mem"))
	assert.Equal(t, 0, s.Len("missing"))
}

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	const capacity = 5
	s := NewStore(capacity)

	for i := 0; i < capacity*3; i++ {
		s.Append(sampleAt("cpu", float64(i), i))
	}

	require.Equal(t, capacity, s.Len("cpu"))

	points := s.All("cpu")
	require.Len(t, points, capacity)
	for i, p := range points {
		// The buffer holds the most recent `capacity` arrivals in order.
		assert.Equal(t, float64(capacity*3-capacity+i), p.Value)
	}
}

func TestLatest(t *testing.T) {
	s := NewStore(4)

	_, ok := s.Latest("cpu")
	assert.False(t, ok)

	s.Append(sampleAt("cpu", 10, 0))
	s.Append(sampleAt("cpu", 20, 1))

	p, ok := s.Latest("cpu")
	require.True(t, ok)
	assert.Equal(t, 20.0, p.Value)
}

func TestRange(t *testing.T) {
	s := NewStore(100)
	for i := 0; i < 10; i++ {
		s.Append(sampleAt("cpu", float64(i), i))
	}

	// Half-open window [t0+2s, t0+5s) holds seconds 2, 3, 4.
	points := s.Range("cpu", t0.Add(2*time.Second), t0.Add(5*time.Second))
	require.Len(t, points, 3)
	assert.Equal(t, 2.0, points[0].Value)
	assert.Equal(t, 4.0, points[2].Value)

	assert.Empty(t, s.Range("missing", t0, t0.Add(time.Hour)))
	assert.Empty(t, s.Range("cpu", t0.Add(time.Hour), t0.Add(2*time.Hour)))
}

func TestResizeShrinkIsLossy(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 10; i++ {
		s.Append(sampleAt("cpu", float64(i), i))
	}

	s.Resize(4)
	assert.Equal(t, 4, s.Capacity())

	points := s.All("cpu")
	require.Len(t, points, 4)
	assert.Equal(t, 6.0, points[0].Value)
	assert.Equal(t, 9.0, points[3].Value)

	// Growing back does not recover discarded points.
	s.Resize(10)
	assert.Equal(t, 4, s.Len("cpu"))

	// New appends fill the grown buffer.
	for i := 10; i < 20; i++ {
		s.Append(sampleAt("cpu", float64(i), i))
	}
	assert.Equal(t, 10, s.Len("cpu"))
}

func TestResizeIgnoresInvalid(t *testing.T) {
	s := NewStore(8)
	s.Resize(0)
	assert.Equal(t, 8, s.Capacity())
	s.Resize(-3)
	assert.Equal(t, 8, s.Capacity())
}

func TestSpan(t *testing.T) {
	s := NewStore(10)

	_, _, ok := s.Span()
	assert.False(t, ok)

	s.Append(sampleAt("cpu", 1, 5))
	s.Append(sampleAt("mem", 2, 1))
	s.Append(sampleAt("cpu", 3, 9))

	oldest, newest, ok := s.Span()
	require.True(t, ok)
	assert.Equal(t, t0.Add(1*time.Second), oldest)
	assert.Equal(t, t0.Add(9*time.Second), newest)
}

func TestFirstSeenOrderStableUnderChurn(t *testing.T) {
	s := NewStore(2)
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("m%d", i%3)
		s.Append(sampleAt(name, float64(i), i))
	}
	assert.Equal(t, []string{"m0", "m1", "m2"}, s.Names())
}

func TestTimestampsNonDecreasing(t *testing.T) {
	s := NewStore(32)
	for i := 0; i < 40; i++ {
		s.Append(sampleAt("cpu", float64(i), i/2))
	}

	points := s.All("cpu")
	for i := 1; i < len(points); i++ {
		assert.False(t, points[i].At.Before(points[i-1].At))
	}
}
