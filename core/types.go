// Package core contains the fundamental geometry types used throughout the router.
package core

import "fmt"

// Point represents a 2D coordinate on the canvas.
type Point struct {
	X, Y int
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Translate returns the point moved by dx, dy.
func (p Point) Translate(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect represents a rectangular area (position + size).
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect builds a rectangle from two opposite corners.
func NewRect(p1, p2 Point) Rect {
	x1, x2 := p1.X, p2.X
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	y1, y2 := p1.Y, p2.Y
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// IsEmpty returns true if the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains checks if a point is inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() &&
		p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsInterior checks if a point lies strictly inside the rectangle,
// not on its border.
func (r Rect) ContainsInterior(p Point) bool {
	return p.X > r.X && p.X < r.Right() &&
		p.Y > r.Y && p.Y < r.Bottom()
}

// Intersects reports whether the interiors of two rectangles overlap.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Expand grows the rectangle by n on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Translate returns the rectangle moved by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle containing both rectangles.
// An empty rectangle is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Width < 0 || r.Height < 0 {
		return o
	}
	if o.Width < 0 || o.Height < 0 {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// UnionPoint returns the smallest rectangle containing r and p.
func (r Rect) UnionPoint(p Point) Rect {
	return r.Union(Rect{X: p.X, Y: p.Y})
}

// String returns the rectangle as "[x,y wxh]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}

// PointList is an ordered sequence of points, such as a routed polyline.
type PointList []Point

// Copy returns an independent copy of the list.
func (pl PointList) Copy() PointList {
	if pl == nil {
		return nil
	}
	out := make(PointList, len(pl))
	copy(out, pl)
	return out
}

// First returns the first point. The list must not be empty.
func (pl PointList) First() Point {
	return pl[0]
}

// Last returns the last point. The list must not be empty.
func (pl PointList) Last() Point {
	return pl[len(pl)-1]
}

// Equal reports whether both lists hold the same points in the same order.
func (pl PointList) Equal(o PointList) bool {
	if len(pl) != len(o) {
		return false
	}
	for i := range pl {
		if pl[i] != o[i] {
			return false
		}
	}
	return true
}

// Bounds returns the bounding rectangle of all points.
func (pl PointList) Bounds() Rect {
	if len(pl) == 0 {
		return Rect{Width: -1, Height: -1}
	}
	r := Rect{X: pl[0].X, Y: pl[0].Y}
	for _, p := range pl[1:] {
		r = r.UnionPoint(p)
	}
	return r
}
