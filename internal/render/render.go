// Package render draws chart frames for the terminal.
//
// Render is a pure function from a Frame snapshot to a styled string
// grid: identical inputs always produce identical output, so frames can
// be snapshot-tested without a real terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kvplot/kvplot/internal/scale"
)

// Layout constants.
const (
	axisGutter = 10 // columns reserved for Y labels when the axis is shown
	headerRows = 1
	footerRows = 1

	// minChartCols/Rows is the smallest chart area worth plotting;
	// below this the frame degrades to a minimal status grid.
	minChartCols = 4
	minChartRows = 2
)

// HelpBinding is one row of the help overlay.
type HelpBinding struct {
	Key  string
	Desc string
}

// Frame is the complete, immutable input to one render pass: the
// transformed data restricted to the visible window plus the view
// state flags that shape the output.
type Frame struct {
	Width  int
	Height int

	// Names lists visible series in legend (first-seen) order.
	Names []string
	// Latest maps series name to its most recent buffered value.
	Latest map[string]float64
	// Peak maps series name to its maximum visible value.
	Peak map[string]float64
	// Result holds the per-series normalized columns at dot resolution.
	Result scale.Result

	Mode     scale.Mode
	Window   time.Duration
	Capacity int

	Cursor     int // chart cell column, -1 when off
	Paused     bool
	ShowAxis   bool
	ShowLegend bool
	ShowHelp   bool

	Bindings []HelpBinding

	// Dropped counts ingestion lines discarded under backpressure.
	Dropped uint64
	// SourceErrors counts sources currently reporting an error.
	SourceErrors int
}

// ChartCells returns the chart area size in character cells.
func (f Frame) ChartCells() (cols, rows int) {
	cols = f.Width
	if f.ShowAxis {
		cols -= axisGutter
	}

	rows = f.Height - headerRows - footerRows
	if f.ShowAxis {
		rows-- // X label row
	}
	if f.ShowLegend {
		rows -= f.legendRows()
	}
	return cols, rows
}

// DotCols returns the horizontal plot resolution: the column count to
// request from scale.Transform.
func (f Frame) DotCols() int {
	cols, _ := f.ChartCells()
	if cols < 0 {
		return 0
	}
	return cols * 2
}

func (f Frame) legendRows() int {
	n := len(f.Names)
	if n > 8 {
		n = 8
	}
	return n
}

// Render draws the frame. Never fails: frames too small to chart
// degrade to a minimal status grid instead of aborting.
func Render(f Frame) string {
	cols, rows := f.ChartCells()
	if cols < minChartCols || rows < minChartRows {
		return renderMinimal(f)
	}

	var sections []string
	sections = append(sections, f.renderHeader())

	if f.ShowLegend {
		sections = append(sections, f.renderLegend())
	}

	if f.ShowHelp {
		sections = append(sections, f.renderHelpOverlay(cols, rows))
	} else {
		sections = append(sections, f.renderChart(cols, rows))
	}

	if f.ShowAxis {
		sections = append(sections, f.renderXLabels(cols))
	}

	sections = append(sections, f.renderFooter())

	return strings.Join(sections, "\n")
}

// renderMinimal is the degraded output for terminals too small to chart.
func renderMinimal(f Frame) string {
	line := fmt.Sprintf("kvplot %d series", len(f.Names))
	if f.Paused {
		line += " " + pausedStyle.Render("PAUSED")
	}
	return headerStyle.Render(line)
}

func (f Frame) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("kvplot"))
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		" │ scale=%s window=%s cap=%d", f.Mode, formatWindow(f.Window), f.Capacity)))

	if f.Cursor >= 0 {
		b.WriteString(headerStyle.Render(" │ ") + cursorStyle.Render("cursor"))
	}
	if f.Paused {
		b.WriteString(headerStyle.Render(" │ ") + pausedStyle.Render("PAUSED"))
	}
	if f.SourceErrors > 0 {
		b.WriteString(headerStyle.Render(" │ ") + warnStyle.Render(fmt.Sprintf("%d source error(s)", f.SourceErrors)))
	}
	if f.Dropped > 0 {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" │ dropped %d", f.Dropped)))
	}
	return b.String()
}

// renderLegend lists each visible series with its color swatch and most
// recent value. With the cursor active it shows the value under the
// cursor instead.
func (f Frame) renderLegend() string {
	nameWidth := 0
	for _, name := range f.Names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}

	lines := make([]string, 0, f.legendRows())
	for i, name := range f.Names {
		if i >= f.legendRows() {
			break
		}
		swatch := lipgloss.NewStyle().Foreground(SeriesColor(i)).Render("⣿")

		value, label := f.Latest[name], ""
		if f.Cursor >= 0 {
			if v, ok := f.cursorValue(name); ok {
				value, label = v, " @cursor"
			} else {
				label = " @cursor: -"
			}
		}

		line := fmt.Sprintf("%s %-*s %s", swatch, nameWidth, name,
			legendValueStyle.Render(fmt.Sprintf("%.2f", value)))
		if peak, ok := f.Peak[name]; ok {
			line += headerStyle.Render(fmt.Sprintf(" (max %.2f)", peak))
		}
		if label != "" {
			line += cursorStyle.Render(label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// cursorValue returns the raw value of a series at the cursor column.
// Each cell column covers two dot columns; the later filled one wins.
func (f Frame) cursorValue(name string) (float64, bool) {
	columns := f.Result.Columns[name]
	for _, dot := range []int{f.Cursor*2 + 1, f.Cursor * 2} {
		if dot >= 0 && dot < len(columns) && columns[dot].Filled {
			return columns[dot].Raw, true
		}
	}
	return 0, false
}

// renderChart plots every series onto one braille canvas and attaches
// the Y axis gutter when enabled.
func (f Frame) renderChart(cols, rows int) string {
	c := newCanvas(cols, rows)
	maxY := c.dotRows() - 1

	for i, name := range f.Names {
		columns := f.Result.Columns[name]
		prevX, prevY := -1, 0
		for x, col := range columns {
			if !col.Filled {
				continue
			}
			y := int(col.Norm * float64(maxY))
			if prevX >= 0 {
				c.drawSegment(prevX, prevY, x, y, i)
			} else {
				c.setDot(x, y, i)
			}
			prevX, prevY = x, y
		}
	}

	lines := c.render(f.Cursor)

	if !f.ShowAxis {
		return strings.Join(lines, "\n")
	}

	labeled := make([]string, len(lines))
	for i, line := range lines {
		labeled[i] = f.yLabel(i, rows) + line
	}
	return strings.Join(labeled, "\n")
}

// yLabel renders the axis gutter for one chart row. Only the top,
// middle, and bottom rows carry values.
func (f Frame) yLabel(row, rows int) string {
	var text string
	switch row {
	case 0:
		text = fmt.Sprintf("%.2f", f.Result.Max)
	case rows / 2:
		text = fmt.Sprintf("%.2f", (f.Result.Min+f.Result.Max)/2)
	case rows - 1:
		text = fmt.Sprintf("%.2f", f.Result.Min)
	}
	if text == "" {
		return strings.Repeat(" ", axisGutter-1) + axisStyle.Render("│")
	}
	return axisStyle.Render(fmt.Sprintf("%*s┤", axisGutter-1, text))
}

// renderXLabels draws the time axis: window-ago on the left, half on
// the center, now on the right.
func (f Frame) renderXLabels(cols int) string {
	left := "-" + formatWindow(f.Window)
	mid := "-" + formatWindow(f.Window/2)
	right := "now"

	pad := cols - len(left) - len(mid) - len(right)
	if pad < 2 {
		return strings.Repeat(" ", f.Width-cols) + axisStyle.Render(right)
	}
	leftGap := pad / 2
	rightGap := pad - leftGap

	line := left + strings.Repeat(" ", leftGap) + mid + strings.Repeat(" ", rightGap) + right
	return strings.Repeat(" ", f.Width-cols) + axisStyle.Render(line)
}

func (f Frame) renderFooter() string {
	hints := []string{
		"q quit",
		"? help",
		"w/W window",
		"h/H history",
		"s scale",
		"c cursor",
		"p pause",
	}
	return footerStyle.Render(strings.Join(hints, " · "))
}

// renderHelpOverlay renders a centered key reference box in place of
// the chart area.
func (f Frame) renderHelpOverlay(cols, rows int) string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range f.Bindings {
		lines = append(lines, helpKeyStyle.Render(binding.Key)+helpDescStyle.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, headerStyle.Render("Press ? to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))

	width := cols
	if f.ShowAxis {
		width = f.Width
	}
	return lipgloss.Place(
		width,
		rows,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
	)
}

// formatWindow renders a duration compactly for the header and axis.
func formatWindow(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
