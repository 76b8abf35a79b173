// Package pathfinding implements Mikami–Tabuchi line-search maze routing for
// orthogonal connections between rectangular obstacles.
package pathfinding

import (
	"mtroute/core"
	"mtroute/geometry"
)

const (
	// DefaultSpacing is the clearance kept between routes and obstacle edges.
	DefaultSpacing = 4

	// DefaultMaxLevels bounds how many line generations each search tree grows.
	DefaultMaxLevels = 32

	// boundsMargin is added around the derived search area when no client
	// area is set.
	boundsMargin = 16
)

// MazeRouter keeps the obstacle set and the registered paths, and routes all
// dirty paths in one Solve pass.
//
// MazeRouter is not safe for concurrent use.
type MazeRouter struct {
	obstacles  []core.Rect
	paths      []*Path
	clientArea core.Rect
	spacing    int
	maxLevels  int
}

// NewMazeRouter creates a router with default spacing and no obstacles.
func NewMazeRouter() *MazeRouter {
	return &MazeRouter{
		spacing:   DefaultSpacing,
		maxLevels: DefaultMaxLevels,
	}
}

// Spacing returns the clearance between routes and obstacles.
func (m *MazeRouter) Spacing() int {
	return m.spacing
}

// SetSpacing sets the clearance between routes and obstacle edges. Changing
// it invalidates every path.
func (m *MazeRouter) SetSpacing(spacing int) {
	if spacing < 0 {
		spacing = 0
	}
	if spacing == m.spacing {
		return
	}
	m.spacing = spacing
	for _, p := range m.paths {
		p.dirty = true
	}
}

// SetMaxLevels limits the number of line generations per search tree.
func (m *MazeRouter) SetMaxLevels(levels int) {
	if levels > 0 {
		m.maxLevels = levels
	}
}

// ClientArea returns the area routes are confined to.
func (m *MazeRouter) ClientArea() core.Rect {
	return m.clientArea
}

// SetClientArea confines routes to area. An empty area lets the router derive
// the search area from obstacles and endpoints. Paths that failed or that
// leave the new area are invalidated.
func (m *MazeRouter) SetClientArea(area core.Rect) {
	if area == m.clientArea {
		return
	}
	m.clientArea = area
	for _, p := range m.paths {
		if p.points == nil || !area.IsEmpty() && !contains(area, p.region()) {
			p.dirty = true
		}
	}
}

// Obstacles returns a copy of the current obstacle rectangles.
func (m *MazeRouter) Obstacles() []core.Rect {
	out := make([]core.Rect, len(m.obstacles))
	copy(out, m.obstacles)
	return out
}

// Paths returns the registered paths in insertion order.
func (m *MazeRouter) Paths() []*Path {
	out := make([]*Path, len(m.paths))
	copy(out, m.paths)
	return out
}

// AddObstacle adds an obstacle rectangle. It reports whether any registered
// path was affected and marked dirty.
func (m *MazeRouter) AddObstacle(r core.Rect) bool {
	m.obstacles = append(m.obstacles, r)
	return m.markAffected(r)
}

// RemoveObstacle removes one obstacle equal to r. It reports whether the
// removal affected any path; removing an unknown rectangle changes nothing.
func (m *MazeRouter) RemoveObstacle(r core.Rect) bool {
	i := m.indexOfObstacle(r)
	if i < 0 {
		return false
	}
	m.obstacles = append(m.obstacles[:i], m.obstacles[i+1:]...)
	return m.markAffected(r)
}

// UpdateObstacle replaces oldRect with newRect and reports whether the move
// is geometrically significant for any path.
func (m *MazeRouter) UpdateObstacle(oldRect, newRect core.Rect) bool {
	if oldRect == newRect {
		return false
	}
	if i := m.indexOfObstacle(oldRect); i >= 0 {
		m.obstacles[i] = newRect
	} else {
		m.obstacles = append(m.obstacles, newRect)
	}
	oldHit := m.markAffected(oldRect)
	newHit := m.markAffected(newRect)
	return oldHit || newHit
}

// AddPath registers a path. It is routed on the next Solve.
func (m *MazeRouter) AddPath(p *Path) {
	if p == nil || m.indexOfPath(p) >= 0 {
		return
	}
	p.dirty = true
	m.paths = append(m.paths, p)
}

// RemovePath unregisters a path. Paths that may have been deflected by its
// route are invalidated.
func (m *MazeRouter) RemovePath(p *Path) {
	i := m.indexOfPath(p)
	if i < 0 {
		return
	}
	m.paths = append(m.paths[:i], m.paths[i+1:]...)
	if p.points == nil {
		return
	}
	gone := p.points.Bounds()
	for _, other := range m.paths {
		if touches(gone, other.region()) {
			other.dirty = true
		}
	}
}

// Solve routes every dirty path and returns them in insertion order. A path
// for which no legal route exists is returned with nil Points.
func (m *MazeRouter) Solve() []*Path {
	bounds := m.searchBounds()

	var soft []segment
	for _, p := range m.paths {
		if !p.dirty && p.points != nil {
			soft = appendSegments(soft, p.points)
		}
	}

	var updated []*Path
	for _, p := range m.paths {
		if !p.dirty {
			continue
		}
		p.points = m.route(p, bounds, soft)
		p.dirty = false
		if p.points != nil {
			soft = appendSegments(soft, p.points)
		}
		updated = append(updated, p)
	}
	return updated
}

// route computes the polyline for p leg by leg through its bend points.
func (m *MazeRouter) route(p *Path, bounds core.Rect, soft []segment) core.PointList {
	waypoints := p.waypoints()
	var result core.PointList
	for i := 0; i < len(waypoints)-1; i++ {
		leg := m.routeLeg(waypoints[i], waypoints[i+1], bounds, soft)
		if leg == nil {
			return nil
		}
		result = joinLegs(result, leg)
	}
	return result
}

// routeLeg routes between two points, first avoiding collinear overlap with
// other routes and then, if that fails, ignoring them.
func (m *MazeRouter) routeLeg(from, to core.Point, bounds core.Rect, soft []segment) core.PointList {
	blocking, own := m.legObstacles(from, to)
	if !contains(bounds, core.NewRect(from, to)) {
		bounds = bounds.Union(core.NewRect(from, to)).Expand(m.spacing + boundsMargin)
	}

	if len(soft) > 0 {
		s := newSearch(from, to, bounds, blocking, clipSegments(soft, own), m.maxLevels)
		if pts := s.run(); pts != nil {
			return pts
		}
	}
	return newSearch(from, to, bounds, blocking, nil, m.maxLevels).run()
}

// legObstacles splits the expanded obstacles into those that block a leg and
// those whose interior holds either end of it: the figures the route starts
// or ends in.
func (m *MazeRouter) legObstacles(from, to core.Point) (blocking, own []core.Rect) {
	blocking = make([]core.Rect, 0, len(m.obstacles))
	for _, o := range m.obstacles {
		e := o.Expand(m.spacing)
		switch {
		case e.IsEmpty():
		case e.ContainsInterior(from) || e.ContainsInterior(to):
			own = append(own, e)
		default:
			blocking = append(blocking, e)
		}
	}
	return blocking, own
}

// searchBounds returns the client area, or an area derived from the current
// obstacles and path waypoints when none is set.
func (m *MazeRouter) searchBounds() core.Rect {
	if !m.clientArea.IsEmpty() {
		return m.clientArea
	}
	r := core.Rect{Width: -1, Height: -1}
	for _, o := range m.obstacles {
		r = r.Union(o.Expand(m.spacing))
	}
	for _, p := range m.paths {
		r = r.Union(p.waypoints().Bounds())
	}
	if r.Width < 0 {
		return core.Rect{}
	}
	return r.Expand(m.spacing + boundsMargin)
}

// markAffected invalidates the paths an obstacle at r could influence.
func (m *MazeRouter) markAffected(r core.Rect) bool {
	e := r.Expand(m.spacing)
	hit := false
	for _, p := range m.paths {
		if e.Intersects(p.region()) {
			p.dirty = true
			hit = true
		}
	}
	return hit
}

func (m *MazeRouter) indexOfObstacle(r core.Rect) int {
	for i, o := range m.obstacles {
		if o == r {
			return i
		}
	}
	return -1
}

func (m *MazeRouter) indexOfPath(p *Path) int {
	for i, q := range m.paths {
		if q == p {
			return i
		}
	}
	return -1
}

// joinLegs appends leg to route, merging the joint when both sides run in
// the same direction. Reversals are kept so every bend point stays on the
// route.
func joinLegs(route, leg core.PointList) core.PointList {
	if len(route) == 0 {
		return leg.Copy()
	}
	for _, p := range leg[1:] {
		n := len(route)
		if n >= 2 && sameDirection(route[n-2], route[n-1], p) {
			route[n-1] = p
			continue
		}
		route = append(route, p)
	}
	return route
}

// sameDirection reports whether a->b and b->c run along one axis in the
// same direction.
func sameDirection(a, b, c core.Point) bool {
	if a.Y == b.Y && b.Y == c.Y {
		return geometry.Sign(b.X-a.X) == geometry.Sign(c.X-b.X)
	}
	if a.X == b.X && b.X == c.X {
		return geometry.Sign(b.Y-a.Y) == geometry.Sign(c.Y-b.Y)
	}
	return false
}

// contains reports whether inner lies entirely within outer, borders included.
func contains(outer, inner core.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

// touches reports whether two rectangles overlap or share a border.
func touches(a, b core.Rect) bool {
	return a.X <= b.Right() && b.X <= a.Right() &&
		a.Y <= b.Bottom() && b.Y <= a.Bottom()
}
