// Package source delivers raw producer lines into the core.
//
// Every configured source (stdin, named pipe, long-running command,
// polled command) runs as its own goroutine and publishes lines into
// one shared bounded Bus. The event loop is the sole consumer.
package source

import (
	"sync/atomic"
	"time"
)

// DefaultBusCapacity bounds the ingestion channel. Under sustained
// overload roughly one screenful of the freshest lines is retained.
const DefaultBusCapacity = 4096

// Line is one raw text line delivered by a producer, stamped with its
// arrival time. The parser assigns this timestamp to every sample on
// the line.
type Line struct {
	Text string
	From string
	At   time.Time
}

// Bus is a bounded multi-producer/single-consumer line channel.
// Publish never blocks: when the bus is full the oldest unread line is
// dropped in favor of freshness. The trade-off is documented behavior,
// not an error condition.
type Bus struct {
	ch        chan Line
	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewBus creates a bus holding at most capacity unread lines.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultBusCapacity
	}
	return &Bus{ch: make(chan Line, capacity)}
}

// Publish enqueues a line without blocking. When the bus is full it
// drops the oldest unread entry to make room.
func (b *Bus) Publish(l Line) {
	select {
	case b.ch <- l:
		b.published.Add(1)
		return
	default:
	}

	// Full: evict the oldest entry, then retry once. If racing
	// producers refill the slot, this line is the one dropped.
	select {
	case <-b.ch:
		b.dropped.Add(1)
	default:
	}
	select {
	case b.ch <- l:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
	}
}

// Drain removes up to max pending lines without blocking.
func (b *Bus) Drain(max int) []Line {
	var lines []Line
	for max <= 0 || len(lines) < max {
		select {
		case l := <-b.ch:
			lines = append(lines, l)
		default:
			return lines
		}
	}
	return lines
}

// Pending returns the number of unread lines.
func (b *Bus) Pending() int {
	return len(b.ch)
}

// Published returns the total number of lines accepted so far.
func (b *Bus) Published() uint64 {
	return b.published.Load()
}

// Dropped returns the total number of lines discarded under backpressure.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
