package source

import (
	"bufio"
	"context"
	"io"
	"time"
)

// Source is one external producer of raw lines. Run blocks until the
// producer is exhausted or ctx is canceled, publishing every line it
// reads into the bus.
type Source interface {
	Name() string
	Run(ctx context.Context, bus *Bus) error
}

// scanLines reads r line by line and publishes each non-empty line,
// checking ctx between reads. Producers whose underlying reader closes
// on cancellation (process pipes) unblock promptly; stdin unblocks on
// process exit.
func scanLines(ctx context.Context, r io.Reader, name string, bus *Bus) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		bus.Publish(Line{Text: line, From: name, At: time.Now()})
	}
	return scanner.Err()
}

// Stdin streams lines from standard input (or any reader, for tests).
type Stdin struct {
	Reader io.Reader
}

// NewStdin creates a source reading from r.
func NewStdin(r io.Reader) *Stdin {
	return &Stdin{Reader: r}
}

// Name identifies the source in status displays.
func (s *Stdin) Name() string { return "stdin" }

// Run streams until EOF or cancellation. EOF is a normal end: a shell
// pipeline closing its write end is not an error.
func (s *Stdin) Run(ctx context.Context, bus *Bus) error {
	return scanLines(ctx, s.Reader, s.Name(), bus)
}
