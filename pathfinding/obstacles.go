package pathfinding

import (
	"mtroute/core"
)

// segment is one axis-aligned piece of an existing route. Other routes may
// cross it but should not run along it.
type segment struct {
	horizontal bool
	fixed      int // y for horizontal segments, x for vertical ones
	lo, hi     int // extent along the other axis, lo < hi
}

// appendSegments splits a polyline into segments and appends them to segs.
func appendSegments(segs []segment, points core.PointList) []segment {
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		switch {
		case a.Y == b.Y && a.X != b.X:
			segs = append(segs, segment{horizontal: true, fixed: a.Y, lo: min(a.X, b.X), hi: max(a.X, b.X)})
		case a.X == b.X && a.Y != b.Y:
			segs = append(segs, segment{horizontal: false, fixed: a.X, lo: min(a.Y, b.Y), hi: max(a.Y, b.Y)})
		}
	}
	return segs
}

// clipSegments removes the parts of segs that lie inside the figures a leg
// starts or ends in. Routes sharing an endpoint figure converge inside it, and
// that overlap is hidden once the route is clipped to the figure's border.
func clipSegments(segs []segment, own []core.Rect) []segment {
	if len(own) == 0 {
		return segs
	}
	out := make([]segment, 0, len(segs))
	for _, s := range segs {
		pieces := []segment{s}
		for _, r := range own {
			var next []segment
			for _, piece := range pieces {
				next = append(next, piece.subtract(r)...)
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return out
}

// subtract returns what is left of s outside the open interior of r.
func (s segment) subtract(r core.Rect) []segment {
	var fixedLo, fixedHi, spanLo, spanHi int
	if s.horizontal {
		fixedLo, fixedHi, spanLo, spanHi = r.Y, r.Bottom(), r.X, r.Right()
	} else {
		fixedLo, fixedHi, spanLo, spanHi = r.X, r.Right(), r.Y, r.Bottom()
	}
	if s.fixed <= fixedLo || s.fixed >= fixedHi || s.hi <= spanLo || s.lo >= spanHi {
		return []segment{s}
	}

	var out []segment
	if s.lo < spanLo {
		out = append(out, segment{horizontal: s.horizontal, fixed: s.fixed, lo: s.lo, hi: spanLo})
	}
	if s.hi > spanHi {
		out = append(out, segment{horizontal: s.horizontal, fixed: s.fixed, lo: spanHi, hi: s.hi})
	}
	return out
}
