package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named data series for plotting. A Fixed series is drawn
// against [Lo, Hi]; otherwise it is scaled to its own min and max.
type Series struct {
	Name   string
	Values []float64
	Fixed  bool
	Lo     float64
	Hi     float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var axisLabels = [3]string{"100%", "50%", "0%"}

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var palette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// brailleBits maps a dot at (column, row) within a braille cell to its bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func percentSeries(name string, values []float64) Series {
	return Series{Name: name, Values: values, Fixed: true, Lo: 0, Hi: 100}
}

// PlotSeries renders a multi-line braille plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a braille plot, forcing ANSI color when
// forceColor is set and NO_COLOR is not.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var present []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			present = append(present, s)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	layers := make([]*canvas, len(present))
	bounds := make([][2]float64, len(present))
	for i, s := range present {
		values := resample(s.Values, width)
		lo, hi := s.Lo, s.Hi
		if !s.Fixed {
			lo, hi = seriesBounds(values)
		}
		if math.Abs(hi-lo) < 1e-9 {
			lo, hi = lo-1, hi+1
		}
		bounds[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		layers[i].trace(values, lo, hi, dashPatterns[i%len(dashPatterns)])
	}

	useColor := shouldUseColor(w, forceColor)
	out := make([]string, 0, height+len(present)+4)
	if title != "" {
		out = append(out, title)
	}
	if !allFixed(present) {
		out = append(out, scaleNote)
	}
	for i, s := range present {
		out = append(out, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, bounds[i][0], bounds[i][1]))
	}
	labelWidth := runewidth.StringWidth(axisLabels[0])
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(axisLabel(y, height), labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := compose(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(palette[owner%len(palette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		out = append(out, row.String())
	}
	out = append(out, legend(present, useColor), "")

	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := runewidth.StringWidth(axisLabels[0]) + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func allFixed(series []Series) bool {
	for _, s := range series {
		if !s.Fixed {
			return false
		}
	}
	return true
}

func axisLabel(y, height int) string {
	switch {
	case y == 0:
		return axisLabels[0]
	case height > 1 && y == height-1:
		return axisLabels[2]
	case height > 2 && y == height/2:
		return axisLabels[1]
	default:
		return ""
	}
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	width  int
	height int
	cells  []uint8
}

func newCanvas(width, height int) *canvas {
	return &canvas{width: width, height: height, cells: make([]uint8, width*height)}
}

func (c *canvas) dot(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.cells[cy*c.width+cx] |= brailleBits[x%2][y%4]
}

func (c *canvas) at(x, y int) uint8 {
	return c.cells[y*c.width+x]
}

// trace draws values, one per cell column, connecting neighbours with lines.
func (c *canvas) trace(values []float64, lo, hi float64, pattern dashPattern) {
	rows := c.height * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := rows - 1 - int(math.Round((v-lo)/(hi-lo)*float64(rows-1)))
		y = max(0, min(rows-1, y))
		if prevX < 0 {
			if pattern.draws(x) {
				c.dot(x, y)
			}
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if pattern.draws(px) {
					c.dot(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func (p dashPattern) draws(x int) bool {
	if p.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%p.period < p.on
}

// compose merges layers at a cell; the owner is the first layer with dots.
func compose(layers []*canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, l := range layers {
		m := l.at(x, y)
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

// resample averages down or linearly interpolates up to n points.
func resample(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func seriesBounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
