package app

import (
	"time"

	"github.com/kvplot/kvplot/internal/scale"
)

// View state bounds.
const (
	// MinWindow is the smallest visible time span.
	MinWindow = time.Second
	// MaxWindow is the largest visible time span.
	MaxWindow = 24 * time.Hour

	// MinCapacity and MaxCapacity bound the per-series history size.
	MinCapacity = 16
	MaxCapacity = 1 << 20

	windowShrinkFactor = 0.8
	windowGrowFactor   = 1.2

	// CursorRight marks a cursor that snaps to the rightmost visible
	// column. The renderer clamps it to the actual chart width.
	CursorRight = 1 << 30
)

// ViewState is everything the keyboard can change about the view.
type ViewState struct {
	Window   time.Duration
	Capacity int
	Scale    scale.Mode

	Cursor     int // chart cell column, -1 when off
	Paused     bool
	ShowAxis   bool
	ShowLegend bool
	ShowHelp   bool
}

// KeyEvent is a decoded keyboard action.
type KeyEvent int

const (
	KeyNone KeyEvent = iota
	KeyQuit
	KeyForceQuit
	KeyHelp
	KeyWindowShrink
	KeyWindowGrow
	KeyHistoryHalve
	KeyHistoryDouble
	KeyToggleAxis
	KeyToggleLegend
	KeyCycleScale
	KeyToggleCursor
	KeyCursorLeft
	KeyCursorRight
	KeyPause
)

// Action tells the event loop what a key transition requires beyond the
// state change itself.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	// ActionResizeHistory asks the loop to resize the store to the new
	// Capacity. Shrinking discards history.
	ActionResizeHistory
)

// ApplyKey is the pure view transition. It never touches the store or
// any I/O, which keeps every binding trivially testable.
func ApplyKey(s ViewState, ev KeyEvent) (ViewState, Action) {
	switch ev {
	case KeyQuit:
		// q closes the help overlay first; a second q quits.
		if s.ShowHelp {
			s.ShowHelp = false
			return s, ActionNone
		}
		return s, ActionQuit

	case KeyForceQuit:
		return s, ActionQuit

	case KeyHelp:
		s.ShowHelp = !s.ShowHelp

	case KeyWindowShrink:
		s.Window = clampWindow(time.Duration(float64(s.Window) * windowShrinkFactor))

	case KeyWindowGrow:
		s.Window = clampWindow(time.Duration(float64(s.Window) * windowGrowFactor))

	case KeyHistoryHalve:
		s.Capacity = clampCapacity(s.Capacity / 2)
		return s, ActionResizeHistory

	case KeyHistoryDouble:
		s.Capacity = clampCapacity(s.Capacity * 2)
		return s, ActionResizeHistory

	case KeyToggleAxis:
		s.ShowAxis = !s.ShowAxis

	case KeyToggleLegend:
		s.ShowLegend = !s.ShowLegend

	case KeyCycleScale:
		s.Scale = s.Scale.Next()

	case KeyToggleCursor:
		if s.Cursor >= 0 {
			s.Cursor = -1
		} else {
			s.Cursor = CursorRight
		}

	case KeyCursorLeft:
		if s.Cursor > 0 {
			s.Cursor--
		}

	case KeyCursorRight:
		if s.Cursor >= 0 {
			s.Cursor++
		}

	case KeyPause:
		s.Paused = !s.Paused
	}

	return s, ActionNone
}

func clampWindow(w time.Duration) time.Duration {
	if w < MinWindow {
		return MinWindow
	}
	if w > MaxWindow {
		return MaxWindow
	}
	return w
}

func clampCapacity(c int) int {
	if c < MinCapacity {
		return MinCapacity
	}
	if c > MaxCapacity {
		return MaxCapacity
	}
	return c
}
