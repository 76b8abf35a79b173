package canvas

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"

	"mtroute/core"
	"mtroute/diagram"
	"mtroute/geometry"
)

// Renderer draws a surface: links first, then node boxes on top, then
// arrow heads just outside the boxes they point at.
type Renderer struct {
	ASCII  bool
	Margin int

	arrows       ArrowType
	arrowsByLink map[string]ArrowType
}

// NewRenderer creates a renderer drawing Unicode lines with end arrows.
func NewRenderer() *Renderer {
	return &Renderer{
		Margin:       1,
		arrows:       ArrowEnd,
		arrowsByLink: make(map[string]ArrowType),
	}
}

// SetDefaultArrowType sets the arrows drawn on links without an override.
func (r *Renderer) SetDefaultArrowType(a ArrowType) {
	r.arrows = a
}

// SetArrowType overrides the arrows drawn on the named link.
func (r *Renderer) SetArrowType(link string, a ArrowType) {
	r.arrowsByLink[link] = a
}

func (r *Renderer) arrowType(link string) ArrowType {
	if a, ok := r.arrowsByLink[link]; ok {
		return a
	}
	return r.arrows
}

// Frame returns the area of the surface the renderer draws: the client area
// if set, otherwise everything the nodes and links cover.
func (r *Renderer) Frame(s *diagram.Surface) core.Rect {
	if area := s.ClientArea(); !area.IsEmpty() {
		return area
	}
	frame := core.Rect{Width: -1, Height: -1}
	for _, n := range s.Nodes() {
		frame = frame.Union(n.Bounds())
	}
	for _, l := range s.Links() {
		if pts := l.Points(); len(pts) > 0 {
			frame = frame.Union(pts.Bounds())
		}
	}
	if frame.Width < 0 {
		return core.Rect{}
	}
	return frame.Expand(r.Margin)
}

// Render draws the surface and returns the resulting text. An empty surface
// renders as the empty string.
func (r *Renderer) Render(s *diagram.Surface) (string, error) {
	frame := r.Frame(s)
	if frame == (core.Rect{}) {
		return "", nil
	}
	c, err := NewMatrixCanvas(frame.Width+1, frame.Height+1)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	toCanvas := func(p core.Point) core.Point {
		return p.Translate(-frame.X, -frame.Y)
	}

	for _, l := range s.Links() {
		pts := l.Points()
		if len(pts) < 2 {
			continue
		}
		local := make(core.PointList, len(pts))
		for i, p := range pts {
			local[i] = toCanvas(p)
		}
		if err := c.DrawPolyline(local, r.ASCII); err != nil {
			return "", fmt.Errorf("render link %s: %w", l.Name(), err)
		}
	}

	style := DefaultBoxStyle
	if r.ASCII {
		style = ASCIIBoxStyle
	}
	var boxes []core.Rect
	for _, n := range s.Nodes() {
		box := n.Bounds().Translate(-frame.X, -frame.Y)
		if err := c.DrawBox(box, style); err != nil {
			continue // too small to draw
		}
		boxes = append(boxes, box)
		drawLabel(c, box, n.Label())
	}

	for _, l := range s.Links() {
		pts := l.Points()
		if len(pts) < 2 {
			continue
		}
		a := r.arrowType(l.Name())
		if a.atEnd() {
			placeArrow(c, toCanvas(pts[len(pts)-2]), toCanvas(pts[len(pts)-1]), boxes, r.ASCII)
		}
		if a.atStart() {
			placeArrow(c, toCanvas(pts[1]), toCanvas(pts[0]), boxes, r.ASCII)
		}
	}

	return c.String(), nil
}

// placeArrow puts an arrow head on the segment from-to, at the cell closest
// to to that is not covered by a box.
func placeArrow(c *MatrixCanvas, from, to core.Point, boxes []core.Rect, ascii bool) {
	if from == to {
		return
	}
	dx, dy := geometry.Sign(from.X-to.X), geometry.Sign(from.Y-to.Y)
	p := to
	for covered(p, boxes) {
		if p == from {
			return
		}
		p = p.Translate(dx, dy)
	}
	c.Put(p, arrowHead(from, to, ascii))
}

func covered(p core.Point, boxes []core.Rect) bool {
	for _, b := range boxes {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// drawLabel wraps label to the inside of box and centers it.
func drawLabel(c *MatrixCanvas, box core.Rect, label string) {
	inner := box.Width - 2
	rows := box.Height - 2
	if inner <= 0 || rows <= 0 || label == "" {
		return
	}
	lines := strings.Split(wordwrap.WrapString(label, uint(inner)), "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	top := box.Y + 1 + (rows-len(lines))/2
	for i, line := range lines {
		line = runewidth.Truncate(line, inner, "…")
		left := box.X + 1 + (inner-runewidth.StringWidth(line))/2
		c.DrawText(left, top+i, line)
	}
}
