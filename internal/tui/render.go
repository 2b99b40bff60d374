package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// layer orders what a cell shows; higher layers overwrite lower ones
type layer uint8

const (
	layerNone layer = iota
	layerEdge
	layerPreview
	layerBand
	layerNode
	layerPort
)

// paint is the style key of one cell
type paint struct {
	layer    layer
	status   string
	selected bool
}

type cell struct {
	r rune
	p paint
}

// raster is a character grid covering the canvas area of the terminal
type raster struct {
	w, h  int
	cells [][]cell
}

func newRaster(w, h int) *raster {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	cells := make([][]cell, h)
	for y := range cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		cells[y] = row
	}
	return &raster{w: w, h: h, cells: cells}
}

func (r *raster) set(x, y int, ch rune, p paint) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	if r.cells[y][x].p.layer > p.layer {
		return
	}
	r.cells[y][x] = cell{r: ch, p: p}
}

func (r *raster) text(x, y int, s string, p paint) {
	for _, ch := range s {
		r.set(x, y, ch, p)
		x++
	}
}

// row returns the plain text of one line
func (r *raster) row(y int) string {
	if y < 0 || y >= r.h {
		return ""
	}
	var b strings.Builder
	for _, c := range r.cells[y] {
		b.WriteRune(c.r)
	}
	return b.String()
}

// String renders the grid, emitting one styled run per change of paint
func (r *raster) String() string {
	var b strings.Builder
	for y, row := range r.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].p == row[start].p {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			b.WriteString(styleFor(row[start].p).Render(run.String()))
			start = x
		}
	}
	return b.String()
}

var (
	edgeColors = map[string]lipgloss.Color{
		string(graph.EdgeInactive):  lipgloss.Color("241"), // Gray
		string(graph.EdgeActive):    lipgloss.Color("86"),  // Cyan
		string(graph.EdgeCompleted): lipgloss.Color("46"),  // Green
		string(graph.EdgeFailed):    lipgloss.Color("196"), // Red
	}
	nodeColors = map[string]lipgloss.Color{
		string(graph.StatusPending):   lipgloss.Color("250"),
		string(graph.StatusPlanning):  lipgloss.Color("63"),  // Purple
		string(graph.StatusRunning):   lipgloss.Color("86"),  // Cyan
		string(graph.StatusCompleted): lipgloss.Color("46"),  // Green
		string(graph.StatusFailed):    lipgloss.Color("196"), // Red
		string(graph.StatusPaused):    lipgloss.Color("226"), // Yellow
		string(graph.StatusCancelled): lipgloss.Color("241"), // Gray
	}
	selectedColor = lipgloss.Color("205") // Pink
)

func styleFor(p paint) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch p.layer {
	case layerEdge:
		s = s.Foreground(edgeColors[p.status])
		if p.selected {
			s = s.Foreground(selectedColor).Bold(true)
		}
	case layerPreview, layerBand:
		s = s.Foreground(selectedColor)
	case layerNode, layerPort:
		s = s.Foreground(nodeColors[p.status])
		if p.selected {
			s = s.Foreground(selectedColor).Bold(true)
		}
	}
	return s
}

// canvasView draws the canvas into a raster of the given size. origin is
// the screen position of the raster's top-left cell.
type canvasView struct {
	c            *canvas.Canvas
	origin       geom.Point
	selectedEdge *graph.EdgeKey
}

func (v canvasView) render(w, h int) string {
	return v.draw(w, h).String()
}

func (v canvasView) draw(w, h int) *raster {
	r := newRaster(w, h)
	v.drawEdges(r)
	v.drawPreview(r)
	v.drawBand(r)
	v.drawNodes(r)
	return r
}

// cellOf converts a logical point to raster coordinates
func (v canvasView) cellOf(p geom.Point) (int, int) {
	s := v.c.Viewport().LogicalToScreen(p).Sub(v.origin)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

func (v canvasView) drawEdges(r *raster) {
	for _, key := range v.c.EdgeKeys() {
		path, ok := v.c.Path(key)
		if !ok {
			continue
		}
		p := paint{
			layer:    layerEdge,
			status:   string(v.c.EdgeStatus(key)),
			selected: v.selectedEdge != nil && *v.selectedEdge == key,
		}
		x0, y0 := v.cellOf(path.From)
		x1, y1 := v.cellOf(path.To)
		steps := 2 * (abs(x1-x0) + abs(y1-y0) + 4)
		for _, pt := range path.Sample(steps) {
			x, y := v.cellOf(pt)
			r.set(x, y, '·', p)
		}
		r.set(x1, y1-1, '▾', p)
	}
}

func (v canvasView) drawPreview(r *raster) {
	from, to, ok := v.c.PendingConnection()
	if !ok {
		return
	}
	x0, y0 := v.cellOf(from)
	x1, y1 := v.cellOf(to)
	steps := abs(x1-x0) + abs(y1-y0)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		r.set(x0+int(math.Round(t*float64(x1-x0))), y0+int(math.Round(t*float64(y1-y0))), '•', paint{layer: layerPreview})
	}
}

func (v canvasView) drawBand(r *raster) {
	box, ok := v.c.SelectionBox()
	if !ok {
		return
	}
	x0, y0 := v.cellOf(box.Min)
	x1, y1 := v.cellOf(box.Max)
	p := paint{layer: layerBand}
	for x := x0; x <= x1; x++ {
		r.set(x, y0, '┄', p)
		r.set(x, y1, '┄', p)
	}
	for y := y0; y <= y1; y++ {
		r.set(x0, y, '┆', p)
		r.set(x1, y, '┆', p)
	}
}

func (v canvasView) drawNodes(r *raster) {
	geo := v.c.Geometry()
	for _, n := range v.c.Nodes() {
		b := geo.Bounds(n)
		x0, y0 := v.cellOf(b.Min)
		x1, y1 := v.cellOf(b.Max)
		if x1-x0 < 2 {
			x1 = x0 + 2
		}
		if y1-y0 < 2 {
			y1 = y0 + 2
		}
		p := paint{layer: layerNode, status: string(n.Status), selected: v.c.IsSelected(n.ID)}
		drawBox(r, x0, y0, x1, y1, p)

		inner := x1 - x0 - 1
		lines := nodeLines(n)
		for i, line := range lines {
			y := y0 + 1 + i
			if y >= y1 {
				break
			}
			r.text(x0+1, y, truncate(line, inner), p)
		}

		port := paint{layer: layerPort, status: string(n.Status), selected: p.selected}
		for _, in := range n.Inputs {
			x, y := v.cellOf(geo.InputAnchor(n, in.Name))
			r.set(x, y, '○', port)
		}
		for _, out := range n.Outputs {
			x, y := v.cellOf(geo.OutputAnchor(n, out.Name))
			r.set(x, y, '●', port)
		}
	}
}

func drawBox(r *raster, x0, y0, x1, y1 int, p paint) {
	for x := x0 + 1; x < x1; x++ {
		r.set(x, y0, '─', p)
		r.set(x, y1, '─', p)
	}
	for y := y0 + 1; y < y1; y++ {
		r.set(x0, y, '│', p)
		r.set(x1, y, '│', p)
		for x := x0 + 1; x < x1; x++ {
			r.set(x, y, ' ', p)
		}
	}
	r.set(x0, y0, '╭', p)
	r.set(x1, y0, '╮', p)
	r.set(x0, y1, '╰', p)
	r.set(x1, y1, '╯', p)
}

// nodeLines returns the text shown inside a node box
func nodeLines(n graph.Node) []string {
	lines := []string{n.DisplayName()}
	status := string(n.Status)
	if n.Progress != nil {
		status = fmt.Sprintf("%s %d%%", status, *n.Progress)
	}
	if n.Kind != "" {
		lines = append(lines, n.Kind)
	}
	return append(lines, status)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
