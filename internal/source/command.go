package source

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Command streams the stdout of one long-running process. The command
// string is run through the shell so pipelines work as sources.
type Command struct {
	Cmd string
}

// NewCommand creates a long-running command source.
func NewCommand(cmd string) *Command {
	return &Command{Cmd: cmd}
}

// Name identifies the source in status displays.
func (c *Command) Name() string { return "cmd: " + c.Cmd }

// Run starts the process and streams its stdout until it exits or ctx
// is canceled. Cancellation kills the process, which closes the pipe
// and unblocks the scanner.
func (c *Command) Run(ctx context.Context, bus *Bus) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", c.Cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %q: %w", c.Cmd, err)
	}

	scanErr := scanLines(ctx, stdout, c.Name(), bus)
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		return fmt.Errorf("%q exited: %w", c.Cmd, waitErr)
	}
	return nil
}

// IntervalCommand re-invokes a short-lived command at a fixed interval
// and publishes each run's output lines.
type IntervalCommand struct {
	Cmd      string
	Interval time.Duration
}

// NewIntervalCommand creates a polled command source.
func NewIntervalCommand(cmd string, interval time.Duration) *IntervalCommand {
	if interval <= 0 {
		interval = time.Second
	}
	return &IntervalCommand{Cmd: cmd, Interval: interval}
}

// Name identifies the source in status displays.
func (c *IntervalCommand) Name() string { return "poll: " + c.Cmd }

// Run invokes the command immediately and then on every interval tick
// until ctx is canceled. A failing invocation ends the source with an
// error; the supervising group records it as the source status.
func (c *IntervalCommand) Run(ctx context.Context, bus *Bus) error {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		if err := c.invoke(ctx, bus); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *IntervalCommand) invoke(ctx context.Context, bus *Bus) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", c.Cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %q: %w", c.Cmd, err)
	}

	scanErr := scanLines(ctx, stdout, c.Name(), bus)
	waitErr := cmd.Wait()

	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		return fmt.Errorf("%q exited: %w", c.Cmd, waitErr)
	}
	return nil
}
