package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvplot/kvplot/internal/errors"
)

// Run starts the producers, runs the interactive loop until quit, and
// stops the producers before returning. A non-nil error means the run
// ended abnormally.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	opts.Group.Start(ctx)

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()

	// The model stops the group on quit; error paths out of p.Run
	// don't reach that, and Stop tolerates repeats.
	opts.Group.Stop(opts.Config.Ingest.Grace)

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Terminal UI failed",
			"Make sure kvplot runs in an interactive terminal")
	}

	if fm, ok := final.(Model); ok && fm.Fatal() != nil {
		return fm.Fatal()
	}
	return nil
}
