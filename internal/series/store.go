// Package series holds the bounded per-metric history buffers.
//
// The Store is a pure data structure with no I/O. It is owned
// exclusively by the event loop, which serializes all mutation onto
// one goroutine, so no locking happens here.
package series

import "time"

// DefaultCapacity is the default number of points retained per series.
const DefaultCapacity = 3600

// Store maps metric names to their bounded history buffers.
// Series are created lazily on first sample and never destroyed
// during a run, only pruned. First-seen order is preserved and
// drives legend ordering.
type Store struct {
	capacity int
	names    []string
	buffers  map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer of points.
type ringBuffer struct {
	data  []Point
	head  int
	count int
	size  int
}

// NewStore creates a store whose series each hold at most capacity points.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		buffers:  make(map[string]*ringBuffer),
	}
}

// Capacity returns the current per-series capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append inserts a sample into its named series, creating the series
// if absent. At capacity the oldest point is evicted first.
func (s *Store) Append(sample Sample) {
	buf, ok := s.buffers[sample.Name]
	if !ok {
		buf = newRingBuffer(s.capacity)
		s.buffers[sample.Name] = buf
		s.names = append(s.names, sample.Name)
	}
	buf.push(Point{At: sample.At, Value: sample.Value})
}

// Names returns series names in first-seen order.
// The returned slice is owned by the store; callers must not mutate it.
func (s *Store) Names() []string {
	return s.names
}

// Len returns the number of buffered points for the named series.
func (s *Store) Len(name string) int {
	buf, ok := s.buffers[name]
	if !ok {
		return 0
	}
	return buf.count
}

// Latest returns the most recent point of the named series.
func (s *Store) Latest(name string) (Point, bool) {
	buf, ok := s.buffers[name]
	if !ok || buf.count == 0 {
		return Point{}, false
	}
	return buf.at(buf.count - 1), true
}

// All returns every buffered point of the named series in arrival order.
func (s *Store) All(name string) []Point {
	buf, ok := s.buffers[name]
	if !ok {
		return nil
	}
	return buf.snapshot(buf.count)
}

// Range returns the ordered points of the named series whose timestamps
// fall in [from, to). A missing series yields an empty result.
func (s *Store) Range(name string, from, to time.Time) []Point {
	buf, ok := s.buffers[name]
	if !ok {
		return nil
	}

	var out []Point
	for i := 0; i < buf.count; i++ {
		p := buf.at(i)
		if p.At.Before(from) {
			continue
		}
		if !p.At.Before(to) {
			break
		}
		out = append(out, p)
	}
	return out
}

// Span returns the timestamps of the oldest and newest buffered points
// across all series, and whether any point is buffered at all.
func (s *Store) Span() (oldest, newest time.Time, ok bool) {
	for _, buf := range s.buffers {
		if buf.count == 0 {
			continue
		}
		first, last := buf.at(0), buf.at(buf.count-1)
		if !ok || first.At.Before(oldest) {
			oldest = first.At
		}
		if !ok || last.At.After(newest) {
			newest = last.At
		}
		ok = true
	}
	return oldest, newest, ok
}

// Resize changes the per-series capacity, immediately trimming every
// series to the new bound. Shrinking discards the oldest excess points
// and is irreversible: growing afterward does not recover them.
func (s *Store) Resize(capacity int) {
	if capacity <= 0 || capacity == s.capacity {
		return
	}
	s.capacity = capacity
	for name, buf := range s.buffers {
		s.buffers[name] = buf.resized(capacity)
	}
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]Point, size),
		size: size,
	}
}

// push adds a point, evicting the oldest when full.
func (r *ringBuffer) push(p Point) {
	r.data[r.head] = p
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// at returns the i-th buffered point in chronological order (0 = oldest).
func (r *ringBuffer) at(i int) Point {
	start := (r.head - r.count + r.size) % r.size
	return r.data[(start+i)%r.size]
}

// snapshot returns the last count points in chronological order.
func (r *ringBuffer) snapshot(count int) []Point {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	out := make([]Point, count)
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		out[i] = r.data[(start+i)%r.size]
	}
	return out
}

// resized returns a buffer with the new size holding the newest points
// that fit.
func (r *ringBuffer) resized(size int) *ringBuffer {
	next := newRingBuffer(size)
	for _, p := range r.snapshot(size) {
		next.push(p)
	}
	return next
}
