package series

import "time"

// Sample is a single (key, value, timestamp) observation.
// Samples are immutable once created; the timestamp is the arrival
// time of the line they were parsed from, since the wire protocol
// carries no embedded time.
type Sample struct {
	Name  string
	Value float64
	At    time.Time
}

// Point is one buffered (timestamp, value) pair within a series.
type Point struct {
	At    time.Time
	Value float64
}
