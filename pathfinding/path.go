package pathfinding

import (
	"mtroute/core"
)

// Path is the routable representation of a connection: its endpoints, the
// optional bend points it must pass through, and the polyline computed by the
// last solve.
type Path struct {
	owner  any
	start  core.Point
	end    core.Point
	bends  core.PointList
	points core.PointList
	dirty  bool
}

// NewPath creates a path on behalf of owner. New paths are dirty.
func NewPath(owner any) *Path {
	return &Path{owner: owner, dirty: true}
}

// Owner returns the value the path was created for, usually a connection.
func (p *Path) Owner() any {
	return p.owner
}

// StartPoint returns the point the route starts from.
func (p *Path) StartPoint() core.Point {
	return p.start
}

// SetStartPoint sets the start point, marking the path dirty if it moved.
func (p *Path) SetStartPoint(pt core.Point) {
	if pt != p.start {
		p.start = pt
		p.dirty = true
	}
}

// EndPoint returns the point the route ends at.
func (p *Path) EndPoint() core.Point {
	return p.end
}

// SetEndPoint sets the end point, marking the path dirty if it moved.
func (p *Path) SetEndPoint(pt core.Point) {
	if pt != p.end {
		p.end = pt
		p.dirty = true
	}
}

// BendPoints returns the ordered points the route is constrained to visit.
func (p *Path) BendPoints() core.PointList {
	return p.bends
}

// SetBendPoints replaces the bend constraints. An empty list removes them.
func (p *Path) SetBendPoints(bends core.PointList) {
	if p.bends.Equal(bends) {
		return
	}
	if len(bends) == 0 {
		p.bends = nil
	} else {
		p.bends = bends.Copy()
	}
	p.dirty = true
}

// Points returns the polyline from the last solve, or nil if no legal route
// was found.
func (p *Path) Points() core.PointList {
	return p.points
}

// IsDirty reports whether the route must be recomputed on the next solve.
func (p *Path) IsDirty() bool {
	return p.dirty
}

// MarkDirty forces the route to be recomputed on the next solve.
func (p *Path) MarkDirty() {
	p.dirty = true
}

// waypoints returns start, bend points and end in visiting order.
func (p *Path) waypoints() core.PointList {
	wp := make(core.PointList, 0, len(p.bends)+2)
	wp = append(wp, p.start)
	wp = append(wp, p.bends...)
	return append(wp, p.end)
}

// region returns the area the path currently occupies. Unsolved paths occupy
// the box spanned by their waypoints.
func (p *Path) region() core.Rect {
	r := p.waypoints().Bounds()
	if p.points != nil {
		r = r.Union(p.points.Bounds())
	}
	return r
}
