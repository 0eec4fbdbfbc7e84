package source

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/kvplot/kvplot/internal/logger"
)

// DefaultGrace is how long Stop waits for producers to acknowledge
// cancellation before giving up on them.
const DefaultGrace = 2 * time.Second

// Group supervises a set of sources feeding one bus. Each source runs
// in its own goroutine; the group records per-source status for the UI
// and coordinates orderly shutdown.
type Group struct {
	bus     *Bus
	log     logger.Logger
	sources []Source

	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	statuses map[string]error
	running  int
}

// NewGroup creates a supervisor for the given sources.
func NewGroup(bus *Bus, log logger.Logger, sources ...Source) *Group {
	if log == nil {
		log = logger.Noop()
	}
	return &Group{
		bus:      bus,
		log:      log,
		sources:  sources,
		statuses: make(map[string]error),
	}
}

// Len returns the number of supervised sources.
func (g *Group) Len() int {
	return len(g.sources)
}

// Bus returns the shared ingestion bus.
func (g *Group) Bus() *Bus {
	return g.bus
}

// Start launches every source. The passed context bounds all of them;
// Stop cancels it.
func (g *Group) Start(ctx context.Context) {
	ctx, g.cancel = context.WithCancel(ctx)
	g.done = make(chan struct{})
	g.running = len(g.sources)

	var wg sync.WaitGroup
	for _, src := range g.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			g.log.Debug("source %s starting", src.Name())
			err := src.Run(ctx, g.bus)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
				g.log.Warn("source %s failed: %v", src.Name(), err)
			} else {
				err = nil
				g.log.Debug("source %s finished", src.Name())
			}

			g.mu.Lock()
			g.statuses[src.Name()] = err
			g.running--
			g.mu.Unlock()
		}(src)
	}

	go func() {
		wg.Wait()
		close(g.done)
	}()
}

// Stop cancels every source and waits up to grace for them to finish.
// Processes spawned by command sources are killed by context
// cancellation. Returns false if the grace period expired with
// producers still running.
func (g *Group) Stop(grace time.Duration) bool {
	if g.cancel == nil {
		return true
	}
	g.cancel()

	if grace <= 0 {
		grace = DefaultGrace
	}
	select {
	case <-g.done:
		return true
	case <-time.After(grace):
		g.log.Warn("shutdown grace period expired with producers still running")
		return false
	}
}

// Errors returns the names of sources that ended with an error, with
// their messages, for the status display.
func (g *Group) Errors() map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]string)
	for name, err := range g.statuses {
		if err != nil {
			out[name] = err.Error()
		}
	}
	return out
}

// ErrorCount returns how many sources ended with an error.
func (g *Group) ErrorCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, err := range g.statuses {
		if err != nil {
			n++
		}
	}
	return n
}

// Failed reports whether every source has stopped and at least one of
// them ended with an error while the bus never accepted a line. This
// is the fatal startup condition: the only configured producers died
// before delivering anything.
func (g *Group) Failed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running > 0 || len(g.statuses) == 0 {
		return false
	}
	anyErr := false
	for _, err := range g.statuses {
		if err != nil {
			anyErr = true
		}
	}
	return anyErr && g.bus.Published() == 0
}

// Finished reports whether every source has stopped.
func (g *Group) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.statuses) > 0 && g.running == 0
}
