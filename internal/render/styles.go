package render

import "github.com/charmbracelet/lipgloss"

// Trace palette, cycled per series in legend order.
var palette = []lipgloss.Color{
	lipgloss.Color("202"), // orange
	lipgloss.Color("10"),  // green
	lipgloss.Color("11"),  // yellow
	lipgloss.Color("13"),  // magenta
	lipgloss.Color("14"),  // cyan
	lipgloss.Color("27"),  // blue
	lipgloss.Color("40"),  // spring green
	lipgloss.Color("57"),  // violet
	lipgloss.Color("174"), // rose
	lipgloss.Color("244"), // gray
}

// SeriesColor returns the trace color for the series at index i.
func SeriesColor(i int) lipgloss.Color {
	return palette[i%len(palette)]
}

// UI colors
const (
	colorAccent  = lipgloss.Color("205")
	colorText    = lipgloss.Color("252")
	colorMuted   = lipgloss.Color("243")
	colorAxis    = lipgloss.Color("245")
	colorWarn    = lipgloss.Color("214")
	colorCursor  = lipgloss.Color("231")
	colorPaused  = lipgloss.Color("203")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	pausedStyle = lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	axisStyle = lipgloss.NewStyle().
			Foreground(colorAxis)

	legendValueStyle = lipgloss.NewStyle().
				Foreground(colorText)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Width(12)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
