package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal charts.
//
// Braille patterns use a 2x4 dot matrix per character cell, so a chart
// area of W x H cells gives 2W x 4H addressable dots. Unicode braille
// starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// brailleDots maps sub-row/sub-column to the bit offset for the braille
// pattern. [row][col] where row is 0-3 (top to bottom) and col is 0-1.
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// canvas is a braille dot grid with one color slot per character cell.
// Later writers overwrite earlier colors, so overlapping traces show
// the most recently plotted series.
type canvas struct {
	width  int // cells
	height int // cells
	cells  [][]rune
	colors [][]int // series index per cell, -1 for none
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]int, height)
	for y := range c.cells {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]int, width)
		for x := range c.cells[y] {
			c.cells[y][x] = brailleBase
			c.colors[y][x] = -1
		}
	}
	return c
}

// dotCols returns the horizontal dot resolution of the canvas.
func (c *canvas) dotCols() int {
	return c.width * 2
}

// dotRows returns the vertical dot resolution of the canvas.
func (c *canvas) dotRows() int {
	return c.height * 4
}

// setDot turns on the dot at (x, y) in dot coordinates, with y = 0 at
// the bottom of the canvas, and tags the cell with the series index.
func (c *canvas) setDot(x, y, seriesIdx int) {
	if x < 0 || y < 0 || x >= c.dotCols() || y >= c.dotRows() {
		return
	}

	// Flip to top-origin rows for cell addressing.
	dotRowTop := c.dotRows() - 1 - y
	cellRow := dotRowTop / 4
	cellCol := x / 2
	subRow := dotRowTop % 4
	subCol := x % 2

	c.cells[cellRow][cellCol] |= rune(1 << brailleDots[subRow][subCol])
	c.colors[cellRow][cellCol] = seriesIdx
}

// drawSegment draws a straight run of dots between two dot coordinates,
// stepping one dot column at a time with linear vertical interpolation.
func (c *canvas) drawSegment(x0, y0, x1, y1, seriesIdx int) {
	if x1 < x0 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if x0 == x1 {
		lo, hi := y0, y1
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			c.setDot(x0, y, seriesIdx)
		}
		return
	}

	prev := y0
	for x := x0; x <= x1; x++ {
		y := y0 + (y1-y0)*(x-x0)/(x1-x0)
		// Fill vertical jumps so steep segments stay connected.
		step := 1
		if y < prev {
			step = -1
		}
		for v := prev; v != y; v += step {
			c.setDot(x, v, seriesIdx)
		}
		c.setDot(x, y, seriesIdx)
		prev = y
	}
}

// render converts the canvas to styled terminal lines, one per cell row.
// cursorCol, when >= 0, overlays a vertical cursor line at that cell column.
func (c *canvas) render(cursorCol int) []string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var b strings.Builder
		runStart := 0
		runColor := -2
		flush := func(end int) {
			if end <= runStart {
				return
			}
			text := string(c.cells[y][runStart:end])
			if runColor >= 0 {
				b.WriteString(lipgloss.NewStyle().Foreground(SeriesColor(runColor)).Render(text))
			} else {
				b.WriteString(text)
			}
			runStart = end
		}
		for x := 0; x < c.width; x++ {
			color := c.colors[y][x]
			if x == cursorCol {
				flush(x)
				b.WriteString(cursorStyle.Render("│"))
				runStart = x + 1
				runColor = -2
				continue
			}
			if color != runColor {
				flush(x)
				runColor = color
			}
		}
		flush(c.width)
		lines[y] = b.String()
	}
	return lines
}
