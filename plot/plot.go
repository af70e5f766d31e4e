// Package plot renders frames onto a character-cell canvas: best-response
// curves, iso-profit lines, the cooperative region, cobweb arrows and the
// equilibrium marker, over the quantity square [0, QMax]².
package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/duopoly/engine/market"
	"github.com/nathoo/duopoly/types"
)

// kind identifies what occupies a cell. Higher kinds draw over lower ones.
type kind int

const (
	kindEmpty kind = iota
	kindRegion
	kindIso1
	kindIso2
	kindBR1
	kindBR2
	kindArrow
	kindEquilibrium
)

type cell struct {
	r rune
	k kind
}

const (
	glyphRegion      = '░'
	glyphIso         = '·'
	glyphBR1         = '*'
	glyphBR2         = '+'
	glyphArrow       = '•'
	glyphEquilibrium = '●'
)

// Canvas is a character grid mapped onto [0, QMax] on both axes, q1 to
// the right and q2 upwards.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	max    float64
}

// NewCanvas creates an empty canvas. Sizes below 2 are raised to 2.
func NewCanvas(width, height int) *Canvas {
	width = max(width, 2)
	height = max(height, 2)
	cells := make([][]cell, height)
	for i := range cells {
		cells[i] = make([]cell, width)
	}
	return &Canvas{width: width, height: height, cells: cells, max: market.QMax}
}

// Width returns the plot area width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the plot area height in cells.
func (c *Canvas) Height() int { return c.height }

// project maps a point to (row, col) without clipping.
func (c *Canvas) project(p types.Point) (row, col int) {
	col = int(math.Round(p.Q1 / c.max * float64(c.width-1)))
	row = c.height - 1 - int(math.Round(p.Q2/c.max*float64(c.height-1)))
	return row, col
}

func (c *Canvas) inside(row, col int) bool {
	return col >= 0 && col < c.width && row >= 0 && row < c.height
}

// cellOf maps a point to (row, col); ok is false outside the canvas.
func (c *Canvas) cellOf(p types.Point) (row, col int, ok bool) {
	if !finitePoint(p) {
		return 0, 0, false
	}
	row, col = c.project(p)
	return row, col, c.inside(row, col)
}

// pointOf maps a cell back to the quantity at its centre.
func (c *Canvas) pointOf(row, col int) types.Point {
	return types.Point{
		Q1: float64(col) / float64(c.width-1) * c.max,
		Q2: float64(c.height-1-row) / float64(c.height-1) * c.max,
	}
}

func (c *Canvas) set(row, col int, r rune, k kind) {
	if c.cells[row][col].k > k {
		return
	}
	c.cells[row][col] = cell{r: r, k: k}
}

func (c *Canvas) plot(p types.Point, r rune, k kind) {
	if row, col, ok := c.cellOf(p); ok {
		c.set(row, col, r, k)
	}
}

// line draws a Bresenham segment between two points, clipped to the canvas.
// Segments reaching beyond twice the plotted range are skipped.
func (c *Canvas) line(a, b types.Point, r rune, k kind) {
	lim := 2 * c.max
	for _, p := range []types.Point{a, b} {
		if math.Abs(p.Q1) > lim || math.Abs(p.Q2) > lim {
			return
		}
	}
	r0, c0 := c.project(a)
	r1, c1 := c.project(b)
	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		if c.inside(r0, c0) {
			c.set(r0, c0, r, k)
		}
		if r0 == r1 && c0 == c1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// Series draws a polyline. Consecutive points more than a quarter of the
// canvas apart are treated as a gap and not joined.
func (c *Canvas) Series(s types.Series, firm int) {
	r, k := glyphBR1, kindBR1
	if firm == 2 {
		r, k = glyphBR2, kindBR2
	}
	gap := c.max / 4
	for i, p := range s.Points {
		if !finitePoint(p) {
			continue
		}
		c.plot(p, r, k)
		if i == 0 || !finitePoint(s.Points[i-1]) {
			continue
		}
		prev := s.Points[i-1]
		if math.Abs(p.Q1-prev.Q1) < gap && math.Abs(p.Q2-prev.Q2) < gap {
			c.line(prev, p, r, k)
		}
	}
}

// IsoLine marks every point of an iso-profit line.
func (c *Canvas) IsoLine(l types.IsoLine) {
	k := kindIso1
	if l.Firm == 2 {
		k = kindIso2
	}
	for _, p := range l.Points {
		c.plot(p, glyphIso, k)
	}
}

// Region shades cells whose nearest mask sample is set. Mask rows are
// indexed by q2 and columns by q1, both ascending over [0, QMax].
func (c *Canvas) Region(mask [][]bool) {
	n := len(mask)
	if n == 0 {
		return
	}
	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			p := c.pointOf(row, col)
			i := int(math.Round(p.Q2 / c.max * float64(n-1)))
			if i < 0 || i >= n {
				continue
			}
			m := len(mask[i])
			j := int(math.Round(p.Q1 / c.max * float64(m-1)))
			if j >= 0 && j < m && mask[i][j] {
				c.set(row, col, glyphRegion, kindRegion)
			}
		}
	}
}

// Arrow draws a cobweb step with a head pointing along its direction.
func (c *Canvas) Arrow(a types.Arrow) {
	if !finitePoint(a.From) || !finitePoint(a.To) {
		return
	}
	c.line(a.From, a.To, glyphArrow, kindArrow)
	c.plot(a.To, head(a), kindArrow)
}

func head(a types.Arrow) rune {
	dx, dy := a.To.Q1-a.From.Q1, a.To.Q2-a.From.Q2
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return '^'
	}
	return 'v'
}

// Marker draws the equilibrium point.
func (c *Canvas) Marker(p types.Point) {
	c.plot(p, glyphEquilibrium, kindEquilibrium)
}

// Draw renders a full frame onto a new canvas of the given size.
func Draw(f types.Frame, width, height int) *Canvas {
	c := NewCanvas(width, height)
	if f.Region != nil {
		c.Region(f.Region)
	}
	for _, l := range f.IsoLines {
		c.IsoLine(l)
	}
	c.Series(f.BR2, 2)
	c.Series(f.BR1, 1)
	for _, a := range f.Arrows {
		c.Arrow(a)
	}
	if f.Equilibrium.Found {
		c.Marker(f.Equilibrium.Point)
	}
	return c
}

// String renders the canvas without styling, axes included.
func (c *Canvas) String() string {
	return c.render(func(_ kind, s string) string { return s })
}

// Render renders the canvas with lipgloss styles, axes included.
func (c *Canvas) Render() string {
	return c.render(func(k kind, s string) string { return styles[k].Render(s) })
}

func (c *Canvas) render(paint func(kind, string) string) string {
	const gutter = 4
	var b strings.Builder

	for row := 0; row < c.height; row++ {
		label := ""
		switch row {
		case 0:
			label = fmt.Sprintf("%.0f", c.max)
		case (c.height - 1) / 2:
			label = fmt.Sprintf("%.0f", c.pointOf(row, 0).Q2)
		case c.height - 1:
			label = "0"
		}
		b.WriteString(paint(kindEmpty, fmt.Sprintf("%*s│", gutter, label)))

		// Group runs of the same kind to keep escape sequences short.
		var run strings.Builder
		runKind := kindEmpty
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(paint(runKind, run.String()))
				run.Reset()
			}
		}
		for col := 0; col < c.width; col++ {
			cl := c.cells[row][col]
			r := cl.r
			if cl.k == kindEmpty {
				r = ' '
			}
			if cl.k != runKind {
				flush()
				runKind = cl.k
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteString("\n")
	}

	b.WriteString(paint(kindEmpty, strings.Repeat(" ", gutter)+"└"+strings.Repeat("─", c.width)))
	b.WriteString("\n")

	mid := fmt.Sprintf("%.0f", c.pointOf(0, (c.width-1)/2).Q1)
	right := fmt.Sprintf("%.0f q1", c.max)
	axis := []rune(strings.Repeat(" ", gutter+1+c.width+len(" q1")))
	place := func(at int, s string) {
		for i, r := range s {
			if at+i >= 0 && at+i < len(axis) {
				axis[at+i] = r
			}
		}
	}
	place(gutter+1, "0")
	place(gutter+1+(c.width-1)/2-len(mid)/2, mid)
	place(gutter+1+c.width-len(right)+len(" q1"), right)
	b.WriteString(paint(kindEmpty, strings.TrimRight(string(axis), " ")))
	return b.String()
}

// Legend describes the glyphs in use for a frame.
func Legend(f types.Frame) []string {
	lines := []string{
		string(glyphBR1) + " " + f.BR1.Label,
		string(glyphBR2) + " " + f.BR2.Label,
	}
	if f.Equilibrium.Found {
		lines = append(lines, fmt.Sprintf("%c Equilibrium (%.2f, %.2f)", glyphEquilibrium, f.Equilibrium.Q1, f.Equilibrium.Q2))
	} else {
		lines = append(lines, fmt.Sprintf("%c Equilibrium: no solution found", glyphEquilibrium))
	}
	if len(f.IsoLines) > 0 {
		lines = append(lines, string(glyphIso)+" Iso-profit lines (firm 1 green, firm 2 orange)")
	}
	if f.Region != nil {
		lines = append(lines, string(glyphRegion)+" Potential gains from cooperation")
	}
	if len(f.Arrows) > 0 {
		lines = append(lines, fmt.Sprintf("%c Best-response path (%d steps)", glyphArrow, len(f.Arrows)))
	}
	return lines
}

var styles = map[kind]lipgloss.Style{
	kindEmpty:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	kindRegion:      lipgloss.NewStyle().Foreground(lipgloss.Color("186")),
	kindIso1:        lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	kindIso2:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	kindBR1:         lipgloss.NewStyle().Foreground(lipgloss.Color("98")).Bold(true),
	kindBR2:         lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	kindArrow:       lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
	kindEquilibrium: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

func finitePoint(p types.Point) bool {
	return !math.IsNaN(p.Q1) && !math.IsNaN(p.Q2) && !math.IsInf(p.Q1, 0) && !math.IsInf(p.Q2, 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
