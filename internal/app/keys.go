package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvplot/kvplot/internal/render"
)

// keyMap declares every binding once so the handler and the help
// overlay can't drift apart.
type keyMap struct {
	Quit         key.Binding
	ForceQuit    key.Binding
	Help         key.Binding
	WindowShrink key.Binding
	WindowGrow   key.Binding
	HistoryHalve key.Binding
	HistoryGrow  key.Binding
	Axis         key.Binding
	Legend       key.Binding
	Scale        key.Binding
	Cursor       key.Binding
	CursorLeft   key.Binding
	CursorRight  key.Binding
	Pause        key.Binding
}

var keys = keyMap{
	Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	WindowShrink: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "shrink window")),
	WindowGrow:   key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "grow window")),
	HistoryHalve: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "halve history")),
	HistoryGrow:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "double history")),
	Axis:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle axis")),
	Legend:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle legend")),
	Scale:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle scale")),
	Cursor:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle cursor")),
	CursorLeft:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
	CursorRight:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cursor right")),
	Pause:        key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "pause")),
}

// decodeKey maps a terminal key press onto its view event.
func decodeKey(msg tea.KeyMsg) KeyEvent {
	switch {
	case key.Matches(msg, keys.Quit):
		return KeyQuit
	case key.Matches(msg, keys.ForceQuit):
		return KeyForceQuit
	case key.Matches(msg, keys.Help):
		return KeyHelp
	case key.Matches(msg, keys.WindowShrink):
		return KeyWindowShrink
	case key.Matches(msg, keys.WindowGrow):
		return KeyWindowGrow
	case key.Matches(msg, keys.HistoryHalve):
		return KeyHistoryHalve
	case key.Matches(msg, keys.HistoryGrow):
		return KeyHistoryDouble
	case key.Matches(msg, keys.Axis):
		return KeyToggleAxis
	case key.Matches(msg, keys.Legend):
		return KeyToggleLegend
	case key.Matches(msg, keys.Scale):
		return KeyCycleScale
	case key.Matches(msg, keys.Cursor):
		return KeyToggleCursor
	case key.Matches(msg, keys.CursorLeft):
		return KeyCursorLeft
	case key.Matches(msg, keys.CursorRight):
		return KeyCursorRight
	case key.Matches(msg, keys.Pause):
		return KeyPause
	}
	return KeyNone
}

// helpBindings builds the help overlay rows from the key map.
func helpBindings() []render.HelpBinding {
	bindings := []key.Binding{
		keys.Quit,
		keys.Help,
		keys.WindowShrink,
		keys.WindowGrow,
		keys.HistoryHalve,
		keys.HistoryGrow,
		keys.Axis,
		keys.Legend,
		keys.Scale,
		keys.Cursor,
		keys.CursorLeft,
		keys.CursorRight,
		keys.Pause,
	}

	rows := make([]render.HelpBinding, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, render.HelpBinding{
			Key:  b.Help().Key,
			Desc: "  " + b.Help().Desc,
		})
	}
	return rows
}
