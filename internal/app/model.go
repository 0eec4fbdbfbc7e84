// Package app runs the interactive plotting loop.
//
// The Model owns the series store outright. Producer goroutines only
// ever touch the bus; every store mutation happens on the Bubble Tea
// update goroutine, so the store needs no locking.
package app

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvplot/kvplot/internal/config"
	"github.com/kvplot/kvplot/internal/errors"
	"github.com/kvplot/kvplot/internal/logger"
	"github.com/kvplot/kvplot/internal/parser"
	"github.com/kvplot/kvplot/internal/render"
	"github.com/kvplot/kvplot/internal/scale"
	"github.com/kvplot/kvplot/internal/series"
	"github.com/kvplot/kvplot/internal/source"
)

// coalesceAbove is the per-tick line count past which intermediate
// samples are dropped and only the newest value per key is kept.
const coalesceAbove = 512

// Options wires the model to its collaborators.
type Options struct {
	Store  *series.Store
	Group  *source.Group
	Config *config.Config
	Log    logger.Logger
}

// Model is the Bubble Tea model for the live chart.
type Model struct {
	store *series.Store
	group *source.Group
	bus   *source.Bus
	log   logger.Logger

	state  ViewState
	width  int
	height int

	tick          time.Duration
	drainMax      int
	freezeOnPause bool
	grace         time.Duration

	// peaks tracks the maximum value seen per series over the whole
	// run, surviving ring buffer eviction.
	peaks map[string]float64

	// frozen is the data snapshot taken when pausing. While paused the
	// chart replays it; the cursor and overlays stay live on top.
	frozen *render.Frame

	quitting bool
	fatal    error
}

// drainTickMsg signals a periodic bus drain and redraw.
type drainTickMsg time.Time

// sourceFatalMsg reports that every producer died without delivering
// a single line.
type sourceFatalMsg struct {
	err error
}

// New creates a model from validated configuration.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}

	cfg := opts.Config
	mode, _ := scale.ParseMode(cfg.Chart.Scale)

	return Model{
		store: opts.Store,
		group: opts.Group,
		bus:   opts.Group.Bus(),
		log:   log,
		state: ViewState{
			Window:     cfg.Chart.Window,
			Capacity:   opts.Store.Capacity(),
			Scale:      mode,
			Cursor:     -1,
			ShowAxis:   true,
			ShowLegend: true,
		},
		tick:          cfg.Chart.Tick,
		drainMax:      cfg.Ingest.DrainMax,
		freezeOnPause: cfg.Ingest.FreezeOnPause,
		grace:         cfg.Ingest.Grace,
		peaks:         make(map[string]float64),
	}
}

// Init starts the drain/redraw ticker.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case drainTickMsg:
		if m.quitting {
			return m, nil
		}
		if m.group.Failed() {
			return m, func() tea.Msg {
				return sourceFatalMsg{err: m.fatalSourceError()}
			}
		}
		m.drain()
		return m, m.tickCmd()

	case sourceFatalMsg:
		m.fatal = msg.err
		m.shutdown()
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return render.Render(m.buildFrame(time.Now()))
}

// Fatal returns the error that forced the loop to quit, if any.
func (m Model) Fatal() error {
	return m.fatal
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev := decodeKey(msg)
	if ev == KeyNone {
		return m, nil
	}

	wasPaused := m.state.Paused

	next, action := ApplyKey(m.state, ev)
	m.state = next
	m.clampCursor()

	switch action {
	case ActionQuit:
		m.shutdown()
		return m, tea.Quit

	case ActionResizeHistory:
		m.store.Resize(m.state.Capacity)
		m.log.Debug("history resized to %d", m.state.Capacity)
	}

	if m.state.Paused && !wasPaused {
		f := m.snapshot(time.Now())
		m.frozen = &f
	}
	if !m.state.Paused && wasPaused {
		m.frozen = nil
	}

	return m, nil
}

// tickCmd schedules the next drain aligned to the tick interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Every(m.tick, func(t time.Time) tea.Msg {
		return drainTickMsg(t)
	})
}

// drain moves buffered producer lines into the store.
func (m *Model) drain() {
	if m.state.Paused && m.freezeOnPause {
		return
	}

	lines := m.bus.Drain(m.drainMax)
	if len(lines) == 0 {
		return
	}

	if len(lines) > coalesceAbove {
		m.appendCoalesced(lines)
		return
	}

	for _, line := range lines {
		for _, sample := range parser.Parse(line.Text, line.At) {
			m.append(sample)
		}
	}
}

// appendCoalesced keeps only the newest sample per key from a burst,
// preserving first-seen key order for the legend.
func (m *Model) appendCoalesced(lines []source.Line) {
	latest := make(map[string]series.Sample)
	var order []string

	for _, line := range lines {
		for _, sample := range parser.Parse(line.Text, line.At) {
			if _, seen := latest[sample.Name]; !seen {
				order = append(order, sample.Name)
			}
			latest[sample.Name] = sample
		}
	}

	for _, name := range order {
		m.append(latest[name])
	}
}

func (m *Model) append(s series.Sample) {
	m.store.Append(s)
	if math.IsNaN(s.Value) {
		return
	}
	if peak, ok := m.peaks[s.Name]; !ok || s.Value > peak {
		m.peaks[s.Name] = s.Value
	}
}

// shutdown cancels the producers and waits out the grace period. Safe
// to call more than once.
func (m *Model) shutdown() {
	if m.quitting {
		return
	}
	m.quitting = true
	if !m.group.Stop(m.grace) {
		m.log.Warn("producers still running after %s grace", m.grace)
	}
}

func (m *Model) fatalSourceError() error {
	detail := ""
	for name, msg := range m.group.Errors() {
		if detail != "" {
			detail += "; "
		}
		detail += name + ": " + msg
	}
	return errors.New(errors.ErrSource,
		"All sources failed before producing any data ("+detail+")",
		"Check the command or pipe produces key=value lines on stdout")
}

// buildFrame assembles the render input. While paused it reuses the
// frozen data snapshot and overlays only the live view toggles, so the
// cursor can inspect a still chart.
func (m Model) buildFrame(now time.Time) render.Frame {
	var f render.Frame
	if m.state.Paused && m.frozen != nil {
		f = *m.frozen
	} else {
		f = m.snapshot(now)
	}

	f.Paused = m.state.Paused
	f.ShowLegend = m.state.ShowLegend
	f.ShowHelp = m.state.ShowHelp
	f.Bindings = helpBindings()
	f.Cursor = m.state.Cursor

	f.Dropped = m.bus.Dropped()
	f.SourceErrors = m.group.ErrorCount()
	return f
}

// snapshot captures the store state as a frame at dot resolution.
func (m Model) snapshot(now time.Time) render.Frame {
	names := m.store.Names()
	f := render.Frame{
		Width:      m.width,
		Height:     m.height,
		Names:      names,
		Latest:     make(map[string]float64, len(names)),
		Peak:       make(map[string]float64, len(names)),
		Mode:       m.state.Scale,
		Window:     m.state.Window,
		Capacity:   m.store.Capacity(),
		Cursor:     m.state.Cursor,
		ShowAxis:   m.state.ShowAxis,
		ShowLegend: m.state.ShowLegend,
	}

	from := now.Add(-m.state.Window)
	windows := make([]scale.SeriesWindow, 0, len(names))
	for _, name := range names {
		windows = append(windows, scale.SeriesWindow{
			Name:   name,
			Points: m.store.Range(name, from, now),
		})
		if p, ok := m.store.Latest(name); ok {
			f.Latest[name] = p.Value
		}
		if peak, ok := m.peaks[name]; ok {
			f.Peak[name] = peak
		}
	}

	f.Result = scale.Transform(windows, from, now, f.DotCols(), m.state.Scale)
	return f
}

// clampCursor keeps the cursor on a visible chart column after key
// steps and resizes. The frozen frame's geometry wins while paused.
func (m *Model) clampCursor() {
	if m.state.Cursor < 0 {
		return
	}

	f := render.Frame{
		Width:      m.width,
		Height:     m.height,
		Names:      m.store.Names(),
		ShowAxis:   m.state.ShowAxis,
		ShowLegend: m.state.ShowLegend,
	}
	if m.state.Paused && m.frozen != nil {
		f = *m.frozen
	}

	cols, _ := f.ChartCells()
	if cols < 1 {
		m.state.Cursor = 0
		return
	}
	if m.state.Cursor >= cols {
		m.state.Cursor = cols - 1
	}
}
