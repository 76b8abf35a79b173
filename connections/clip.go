package connections

import (
	"mtroute/core"
	"mtroute/diagram"
	"mtroute/geometry"
)

// clipRoute trims a solved route, which runs between the centers of its end
// figures, to the borders of those figures. Points the route visits inside
// the figures are dropped and repeated points collapsed, so the result has
// no zero-length segment.
func clipRoute(points core.PointList, source, target diagram.Anchor) core.PointList {
	out := points.Copy()
	if len(out) == 1 {
		out = append(out, out[0])
	}
	n := len(out)

	first, start := clipStart(out, source)
	last, end := clipEnd(out, target)
	if first > last+1 {
		// the end figures overlap; fall back to clipping the outer points
		out[0] = source.Location(out[1])
		out[n-1] = target.Location(out[n-2])
		return out
	}

	clipped := make(core.PointList, 0, last-first+3)
	clipped = append(clipped, start)
	clipped = append(clipped, out[first:last+1]...)
	clipped = append(clipped, end)
	clipped = collapse(clipped)
	if len(clipped) == 1 {
		clipped = append(clipped, clipped[0])
	}
	return clipped
}

// collapse removes repeated points and points in the middle of a straight
// run. Reversals stay, so bend points the route turns back at are kept.
func collapse(pts core.PointList) core.PointList {
	out := make(core.PointList, 0, len(pts))
	for _, p := range pts {
		n := len(out)
		if n > 0 && out[n-1] == p {
			continue
		}
		if n >= 2 && geometry.OnSegment(out[n-2], p, out[n-1]) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// clipStart returns the index of the first route point kept after the new
// start point, and that start point.
func clipStart(pts core.PointList, a diagram.Anchor) (int, core.Point) {
	owner := a.Owner()
	if owner == nil || !owner.Bounds().ContainsInterior(pts[0]) {
		return 1, a.Location(pts[1])
	}
	box := owner.Bounds()
	for i := 1; i < len(pts); i++ {
		if !box.ContainsInterior(pts[i]) {
			return i, exitPoint(a, box, pts[i-1], pts[i])
		}
	}
	return 1, a.Location(pts[1])
}

// clipEnd returns the index of the last route point kept before the new end
// point, and that end point.
func clipEnd(pts core.PointList, a diagram.Anchor) (int, core.Point) {
	n := len(pts)
	owner := a.Owner()
	if owner == nil || !owner.Bounds().ContainsInterior(pts[n-1]) {
		return n - 2, a.Location(pts[n-2])
	}
	box := owner.Bounds()
	for i := n - 2; i >= 0; i-- {
		if !box.ContainsInterior(pts[i]) {
			return i, exitPoint(a, box, pts[i+1], pts[i])
		}
	}
	return n - 2, a.Location(pts[n-2])
}

// exitPoint is where the segment from in, inside box, to out leaves box. The
// anchor's own location is used when it lies on that segment.
func exitPoint(a diagram.Anchor, box core.Rect, in, out core.Point) core.Point {
	if loc := a.Location(out); geometry.OnSegment(in, out, loc) && !box.ContainsInterior(loc) {
		return loc
	}
	p := in
	switch {
	case out.X >= box.Right():
		p.X = box.Right()
	case out.X <= box.X:
		p.X = box.X
	case out.Y >= box.Bottom():
		p.Y = box.Bottom()
	default:
		p.Y = box.Y
	}
	return p
}
