package geometry

import (
	"math"

	"mtroute/core"
)

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(p1, p2 core.Point) int {
	return Abs(p2.X-p1.X) + Abs(p2.Y-p1.Y)
}

// IsAligned checks if three points are aligned horizontally or vertically.
func IsAligned(p1, p2, p3 core.Point) bool {
	if p1.Y == p2.Y && p2.Y == p3.Y {
		return true
	}
	return p1.X == p2.X && p2.X == p3.X
}

// OnSegment reports whether p lies on the axis-aligned segment a-b,
// endpoints included.
func OnSegment(a, b, p core.Point) bool {
	switch {
	case a.X == b.X && p.X == a.X:
		return p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
	case a.Y == b.Y && p.Y == a.Y:
		return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X)
	}
	return false
}

// IsOrthogonal reports whether every segment of the polyline is horizontal or vertical.
func IsOrthogonal(points core.PointList) bool {
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
	}
	return true
}

// Simplify removes repeated points and interior points that lie on a straight
// run, leaving only the endpoints and the bends.
func Simplify(points core.PointList) core.PointList {
	if len(points) == 0 {
		return nil
	}

	deduped := core.PointList{points[0]}
	for _, p := range points[1:] {
		if p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}
	if len(deduped) <= 2 {
		return deduped
	}

	simplified := core.PointList{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		if !IsAligned(simplified[len(simplified)-1], deduped[i], deduped[i+1]) {
			simplified = append(simplified, deduped[i])
		}
	}
	return append(simplified, deduped[len(deduped)-1])
}

// Length returns the total Manhattan length of a polyline.
func Length(points core.PointList) int {
	total := 0
	for i := 0; i < len(points)-1; i++ {
		total += ManhattanDistance(points[i], points[i+1])
	}
	return total
}

// Bends returns the number of direction changes in a polyline.
func Bends(points core.PointList) int {
	simplified := Simplify(points)
	if len(simplified) < 3 {
		return 0
	}
	return len(simplified) - 2
}

// SegmentCrossesRect reports whether the axis-aligned segment a-b passes
// through the open interior of r. Segments running along the border do not cross.
func SegmentCrossesRect(a, b core.Point, r core.Rect) bool {
	if r.IsEmpty() {
		return false
	}
	if a.Y == b.Y {
		if a.Y <= r.Y || a.Y >= r.Bottom() {
			return false
		}
		lo, hi := min(a.X, b.X), max(a.X, b.X)
		return lo < r.Right() && hi > r.X
	}
	if a.X == b.X {
		if a.X <= r.X || a.X >= r.Right() {
			return false
		}
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		return lo < r.Bottom() && hi > r.Y
	}
	// Diagonal segments are not produced by the router; test their bounding box.
	return core.NewRect(a, b).Intersects(r)
}

// PolylineCrossesRect reports whether any segment of the polyline crosses r.
func PolylineCrossesRect(points core.PointList, r core.Rect) bool {
	for i := 0; i < len(points)-1; i++ {
		if SegmentCrossesRect(points[i], points[i+1], r) {
			return true
		}
	}
	return false
}

// ChopboxLocation returns the point where the line from the center of box
// towards ref leaves the box. When ref is level with the center the result
// keeps the same row or column, so orthogonal routes stay orthogonal.
func ChopboxLocation(box core.Rect, ref core.Point) core.Point {
	c := box.Center()
	if box.IsEmpty() || ref == c {
		return c
	}

	dx := ref.X - c.X
	dy := ref.Y - c.Y
	switch {
	case dx == 0 && dy < 0:
		return core.Point{X: c.X, Y: box.Y}
	case dx == 0:
		return core.Point{X: c.X, Y: box.Bottom()}
	case dy == 0 && dx < 0:
		return core.Point{X: box.X, Y: c.Y}
	case dy == 0:
		return core.Point{X: box.Right(), Y: c.Y}
	}

	scale := 0.5 / math.Max(
		math.Abs(float64(dx))/float64(box.Width),
		math.Abs(float64(dy))/float64(box.Height),
	)
	return core.Point{
		X: c.X + int(math.Round(float64(dx)*scale)),
		Y: c.Y + int(math.Round(float64(dy)*scale)),
	}
}
