package pathfinding

import (
	"sort"

	"mtroute/core"
	"mtroute/geometry"
)

// searchLine is one trial line of the Mikami–Tabuchi search: a maximal free
// horizontal or vertical run through its base point.
type searchLine struct {
	horizontal bool
	fixed      int // y for horizontal lines, x for vertical ones
	lo, hi     int // free extent along the other axis
	base       core.Point
	parent     *searchLine
	cost       int // route length from the tree root to base
}

// at returns the point on the line at coordinate v of its free axis.
func (l *searchLine) at(v int) core.Point {
	if l.horizontal {
		return core.Point{X: v, Y: l.fixed}
	}
	return core.Point{X: l.fixed, Y: v}
}

// costTo returns the route length from the tree root to p on this line.
func (l *searchLine) costTo(p core.Point) int {
	return l.cost + geometry.ManhattanDistance(l.base, p)
}

// trace returns the points from the tree root to p, root first.
func (l *searchLine) trace(p core.Point) core.PointList {
	pts := core.PointList{p}
	for cur := l; cur != nil; cur = cur.parent {
		pts = append(pts, cur.base)
	}
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}

type lineKey struct {
	horizontal bool
	fixed      int
	lo, hi     int
}

// searchTree holds the lines grown from one end of the leg.
type searchTree struct {
	lines    []*searchLine
	frontier []*searchLine
	seen     map[lineKey]bool
}

func newSearchTree() *searchTree {
	return &searchTree{seen: make(map[lineKey]bool)}
}

// meeting is a point where a source line and a target line touch.
type meeting struct {
	at     core.Point
	source *searchLine
	target *searchLine
	cost   int
}

// lineSearch routes one leg between two points.
type lineSearch struct {
	from, to  core.Point
	bounds    core.Rect
	obstacles []core.Rect
	soft      []segment
	maxLevels int
	xs, ys    []int
	source    *searchTree
	target    *searchTree
}

func newSearch(from, to core.Point, bounds core.Rect, obstacles []core.Rect, soft []segment, maxLevels int) *lineSearch {
	s := &lineSearch{
		from:      from,
		to:        to,
		bounds:    bounds,
		obstacles: obstacles,
		soft:      soft,
		maxLevels: maxLevels,
		source:    newSearchTree(),
		target:    newSearchTree(),
	}
	s.collectCoordinates()
	return s
}

// collectCoordinates gathers the coordinates base points may sit on: the
// obstacle edges, the search bounds and both ends of the leg.
func (s *lineSearch) collectCoordinates() {
	xs := []int{s.bounds.X, s.bounds.Right(), s.from.X, s.to.X}
	ys := []int{s.bounds.Y, s.bounds.Bottom(), s.from.Y, s.to.Y}
	for _, o := range s.obstacles {
		xs = append(xs, o.X, o.Right())
		ys = append(ys, o.Y, o.Bottom())
	}
	s.xs = uniqueSorted(xs)
	s.ys = uniqueSorted(ys)
}

// run performs the search and returns the simplified route, or nil when the
// two ends cannot be connected within the bounds.
func (s *lineSearch) run() core.PointList {
	if s.from == s.to {
		return core.PointList{s.from}
	}
	if s.blocked(s.from) || s.blocked(s.to) {
		return nil
	}

	s.seed(s.source, s.from)
	s.seed(s.target, s.to)
	if m := s.bestMeeting(s.source.lines, s.target.lines); m != nil {
		return s.assemble(m)
	}

	for level := 1; level <= s.maxLevels; level++ {
		if m := s.grow(s.source, s.target, true); m != nil {
			return s.assemble(m)
		}
		if m := s.grow(s.target, s.source, false); m != nil {
			return s.assemble(m)
		}
		if len(s.source.frontier) == 0 && len(s.target.frontier) == 0 {
			return nil
		}
	}
	return nil
}

// seed adds the horizontal and vertical lines through the root of a tree.
func (s *lineSearch) seed(t *searchTree, root core.Point) {
	var frontier []*searchLine
	for _, horizontal := range []bool{true, false} {
		if l := s.extend(horizontal, root, nil); l != nil && s.add(t, l) {
			frontier = append(frontier, l)
		}
	}
	t.frontier = frontier
}

// grow generates the next level of tree t: perpendicular lines through every
// base point on the current frontier. It returns the best meeting with the
// other tree among the new lines.
func (s *lineSearch) grow(t, other *searchTree, fromSource bool) *meeting {
	var next []*searchLine
	var best *meeting

	for _, l := range t.frontier {
		coords := s.ys
		if l.horizontal {
			coords = s.xs
		}
		start := sort.SearchInts(coords, l.lo)
		for _, v := range coords[start:] {
			if v > l.hi {
				break
			}
			child := s.extend(!l.horizontal, l.at(v), l)
			if child == nil || !s.add(t, child) {
				continue
			}
			next = append(next, child)

			var m *meeting
			if fromSource {
				m = s.bestMeeting([]*searchLine{child}, other.lines)
			} else {
				m = s.bestMeeting(other.lines, []*searchLine{child})
			}
			if m != nil && (best == nil || m.cost < best.cost) {
				best = m
			}
		}
	}

	t.frontier = next
	return best
}

// add records l in tree t unless an identical line is already present.
func (s *lineSearch) add(t *searchTree, l *searchLine) bool {
	key := lineKey{horizontal: l.horizontal, fixed: l.fixed, lo: l.lo, hi: l.hi}
	if t.seen[key] {
		return false
	}
	t.seen[key] = true
	t.lines = append(t.lines, l)
	return true
}

// extend builds the maximal free line through base. It returns nil if base
// itself is inside an obstacle.
func (s *lineSearch) extend(horizontal bool, base core.Point, parent *searchLine) *searchLine {
	fixed, pos := base.X, base.Y
	lo, hi := s.bounds.Y, s.bounds.Bottom()
	if horizontal {
		fixed, pos = base.Y, base.X
		lo, hi = s.bounds.X, s.bounds.Right()
	}
	if pos < lo || pos > hi {
		return nil
	}

	for _, o := range s.obstacles {
		fLo, fHi, sLo, sHi := o.X, o.Right(), o.Y, o.Bottom()
		if horizontal {
			fLo, fHi, sLo, sHi = o.Y, o.Bottom(), o.X, o.Right()
		}
		if fixed <= fLo || fixed >= fHi {
			continue
		}
		switch {
		case sHi <= pos:
			lo = max(lo, sHi)
		case sLo >= pos:
			hi = min(hi, sLo)
		default:
			return nil
		}
	}

	for _, seg := range s.soft {
		if seg.horizontal != horizontal || seg.fixed != fixed {
			continue
		}
		switch {
		case seg.hi <= pos:
			lo = max(lo, seg.hi)
		case seg.lo >= pos:
			hi = min(hi, seg.lo)
		default:
			lo, hi = pos, pos
		}
	}

	l := &searchLine{horizontal: horizontal, fixed: fixed, lo: lo, hi: hi, base: base, parent: parent}
	if parent != nil {
		l.cost = parent.costTo(base)
	}
	return l
}

// blocked reports whether p lies inside an obstacle.
func (s *lineSearch) blocked(p core.Point) bool {
	for _, o := range s.obstacles {
		if o.ContainsInterior(p) {
			return true
		}
	}
	return false
}

// bestMeeting returns the cheapest meeting between any source line and any
// target line. Ties keep the first meeting found.
func (s *lineSearch) bestMeeting(sources, targets []*searchLine) *meeting {
	var best *meeting
	for _, a := range sources {
		for _, b := range targets {
			p, ok := intersect(a, b)
			if !ok {
				continue
			}
			cost := a.costTo(p) + b.costTo(p)
			if best == nil || cost < best.cost {
				best = &meeting{at: p, source: a, target: b, cost: cost}
			}
		}
	}
	return best
}

// intersect returns the point where two lines touch. Collinear overlapping
// lines meet at the point of the overlap nearest to the source line's base.
func intersect(a, b *searchLine) (core.Point, bool) {
	if a.horizontal != b.horizontal {
		h, v := a, b
		if !a.horizontal {
			h, v = b, a
		}
		if v.fixed < h.lo || v.fixed > h.hi || h.fixed < v.lo || h.fixed > v.hi {
			return core.Point{}, false
		}
		return core.Point{X: v.fixed, Y: h.fixed}, true
	}

	if a.fixed != b.fixed {
		return core.Point{}, false
	}
	lo, hi := max(a.lo, b.lo), min(a.hi, b.hi)
	if lo > hi {
		return core.Point{}, false
	}
	pos := a.base.X
	if !a.horizontal {
		pos = a.base.Y
	}
	return a.at(min(max(pos, lo), hi)), true
}

// assemble joins the two half routes at the meeting point.
func (s *lineSearch) assemble(m *meeting) core.PointList {
	route := m.source.trace(m.at)
	back := m.target.trace(m.at)
	for i := len(back) - 2; i >= 0; i-- {
		route = append(route, back[i])
	}
	return geometry.Simplify(route)
}

func uniqueSorted(values []int) []int {
	sort.Ints(values)
	out := make([]int, 0, len(values))
	for _, v := range values {
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}
