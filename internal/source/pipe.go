package source

import (
	"context"
	"fmt"
	"os"
)

// Pipe streams lines from a named pipe (FIFO) path. The pipe is
// reopened after EOF so writers can come and go for the lifetime of
// the run.
type Pipe struct {
	Path string
}

// NewPipe creates a named pipe source.
func NewPipe(path string) *Pipe {
	return &Pipe{Path: path}
}

// Name identifies the source in status displays.
func (p *Pipe) Name() string { return "pipe: " + p.Path }

// Run reads the pipe until ctx is canceled. A missing or unopenable
// path ends the source with an error.
func (p *Pipe) Run(ctx context.Context, bus *Bus) error {
	if _, err := os.Stat(p.Path); err != nil {
		return fmt.Errorf("pipe %s: %w", p.Path, err)
	}

	for {
		f, err := p.open(ctx)
		if err != nil {
			return err
		}
		if f == nil {
			return ctx.Err()
		}

		scanErr := scanLines(ctx, f, p.Name(), bus)
		f.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if scanErr != nil {
			return scanErr
		}
		// EOF: the writer went away. Reopen and wait for the next one.
	}
}

// open opens the pipe for reading without wedging shutdown: opening a
// FIFO blocks until a writer appears, so the open runs in its own
// goroutine and cancellation abandons it.
func (p *Pipe) open(ctx context.Context) (*os.File, error) {
	type result struct {
		f   *os.File
		err error
	}
	ch := make(chan result, 1)

	go func() {
		f, err := os.OpenFile(p.Path, os.O_RDONLY, 0)
		ch <- result{f, err}
	}()

	select {
	case <-ctx.Done():
		// Best effort: close the file if the open completes later.
		go func() {
			if r := <-ch; r.f != nil {
				r.f.Close()
			}
		}()
		return nil, nil
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("open pipe %s: %w", p.Path, r.err)
		}
		return r.f, nil
	}
}
