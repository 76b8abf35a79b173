// Package diagram defines the collaborators the connection router works with
// and an in-memory surface implementing them.
package diagram

import (
	"errors"
	"fmt"

	"mtroute/core"
)

var (
	// ErrDuplicateNode is returned when a node name is already taken.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDuplicateLink is returned when a link name is already taken.
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrUnknownNode is returned when a node is not on the surface.
	ErrUnknownNode = errors.New("unknown node")
)

// maxValidatePasses bounds how often Validate drains links queued while it
// was routing.
const maxValidatePasses = 8

// Surface is a Container holding nodes and the links between them. Links
// that ask to be revalidated are queued and routed by Validate, the way an
// update manager would do it once per event loop turn.
type Surface struct {
	clientArea core.Rect
	nodes      []*Node
	links      []*Link
	listeners  listenerList[ContainerListener]
	router     ConnectionRouter
	queue      []*Link
}

// NewSurface creates an empty surface. An empty client area leaves routing
// unbounded.
func NewSurface(clientArea core.Rect) *Surface {
	return &Surface{clientArea: clientArea}
}

// Children returns the nodes in insertion order.
func (s *Surface) Children() []Figure {
	out := make([]Figure, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n
	}
	return out
}

func (s *Surface) ClientArea() core.Rect {
	return s.clientArea
}

// SetClientArea changes the client area and revalidates every link.
func (s *Surface) SetClientArea(r core.Rect) {
	if r == s.clientArea {
		return
	}
	s.clientArea = r
	for _, l := range s.links {
		l.Revalidate()
	}
}

func (s *Surface) AddContainerListener(l ContainerListener) Subscription {
	return s.listeners.add(l)
}

// ContainerListeners returns the number of registered container listeners.
func (s *Surface) ContainerListeners() int {
	return s.listeners.len()
}

// AddNode adds n to the surface and notifies container listeners.
func (s *Surface) AddNode(n *Node) error {
	if _, ok := s.Node(n.Name()); ok {
		return fmt.Errorf("add node %q: %w", n.Name(), ErrDuplicateNode)
	}
	s.nodes = append(s.nodes, n)
	for _, l := range s.listeners.snapshot() {
		l.ChildAdded(n)
	}
	return nil
}

// RemoveNode disconnects every link attached to n, removes n and notifies
// container listeners.
func (s *Surface) RemoveNode(n *Node) error {
	i := s.indexOfNode(n)
	if i < 0 {
		return fmt.Errorf("remove node %q: %w", n.Name(), ErrUnknownNode)
	}
	for _, l := range s.Links() {
		if l.attached(n) {
			s.Disconnect(l)
		}
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	for _, l := range s.listeners.snapshot() {
		l.ChildRemoved(n)
	}
	return nil
}

// Node looks a node up by name.
func (s *Surface) Node(name string) (*Node, bool) {
	for _, n := range s.nodes {
		if n.Name() == name {
			return n, true
		}
	}
	return nil, false
}

// Nodes returns the nodes in insertion order.
func (s *Surface) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// SetBounds moves or resizes n.
func (s *Surface) SetBounds(n *Node, r core.Rect) {
	n.SetBounds(r)
}

// Move translates n by dx, dy.
func (s *Surface) Move(n *Node, dx, dy int) {
	n.SetBounds(n.Bounds().Translate(dx, dy))
}

// Layout announces a completed layout pass to container listeners.
func (s *Surface) Layout() {
	for _, l := range s.listeners.snapshot() {
		l.LayoutComplete()
	}
}

// Connect creates a link between two anchors. The link revalidates itself
// whenever the figure owning either anchor moves.
func (s *Surface) Connect(name string, source, target Anchor) (*Link, error) {
	if _, ok := s.Link(name); ok {
		return nil, fmt.Errorf("connect %q: %w", name, ErrDuplicateLink)
	}
	l := &Link{name: name, source: source, target: target, surface: s}
	for _, a := range []Anchor{source, target} {
		if owner := a.Owner(); owner != nil {
			l.subs = append(l.subs, owner.AddBoundsListener(func(Figure) { l.Revalidate() }))
		}
	}
	s.links = append(s.links, l)
	l.Revalidate()
	return l, nil
}

// ConnectNodes links the borders of two nodes on the surface.
func (s *Surface) ConnectNodes(name string, from, to *Node) (*Link, error) {
	for _, n := range []*Node{from, to} {
		if s.indexOfNode(n) < 0 {
			return nil, fmt.Errorf("connect %q to node %q: %w", name, n.Name(), ErrUnknownNode)
		}
	}
	return s.Connect(name, NewChopboxAnchor(from), NewChopboxAnchor(to))
}

// Disconnect removes l from the surface and from its router.
func (s *Surface) Disconnect(l *Link) {
	i := s.indexOfLink(l)
	if i < 0 {
		return
	}
	l.unsubscribe()
	s.links = append(s.links[:i], s.links[i+1:]...)
	s.dequeue(l)
	if s.router != nil {
		s.router.Remove(l)
	}
	l.surface = nil
}

// Link looks a link up by name.
func (s *Surface) Link(name string) (*Link, bool) {
	for _, l := range s.links {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// Links returns the links in creation order.
func (s *Surface) Links() []*Link {
	out := make([]*Link, len(s.links))
	copy(out, s.links)
	return out
}

// SetConstraint makes l pass through points, in order. No points clears the
// constraint.
func (s *Surface) SetConstraint(l *Link, points ...core.Point) {
	if s.router != nil {
		s.router.SetConstraint(l, Bends(points...))
	}
	l.Revalidate()
}

// Router returns the router links are routed with.
func (s *Surface) Router() ConnectionRouter {
	return s.router
}

// SetRouter replaces the router. Links are removed from the previous router
// and revalidated with the new one.
func (s *Surface) SetRouter(r ConnectionRouter) {
	if s.router != nil {
		for _, l := range s.links {
			s.router.Remove(l)
		}
	}
	s.router = r
	for _, l := range s.links {
		l.Revalidate()
	}
}

// Pending returns the number of links waiting to be routed.
func (s *Surface) Pending() int {
	return len(s.queue)
}

// Validate routes every queued link and returns the number of route
// requests made. Links queued while routing are handled in further passes.
// Without a router links are drawn as straight lines between their anchors.
func (s *Surface) Validate() int {
	routed := 0
	for pass := 0; len(s.queue) > 0 && pass < maxValidatePasses; pass++ {
		batch := s.queue
		s.queue = nil
		for _, l := range batch {
			if s.router == nil {
				l.SetPoints(straight(l))
				continue
			}
			s.router.Route(l)
			routed++
		}
	}
	return routed
}

func (s *Surface) revalidate(l *Link) {
	if s.router != nil {
		s.router.Invalidate(l)
	}
	for _, q := range s.queue {
		if q == l {
			return
		}
	}
	s.queue = append(s.queue, l)
}

func (s *Surface) dequeue(l *Link) {
	for i, q := range s.queue {
		if q == l {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

func (s *Surface) indexOfNode(n *Node) int {
	for i, m := range s.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

func (s *Surface) indexOfLink(l *Link) int {
	for i, m := range s.links {
		if m == l {
			return i
		}
	}
	return -1
}

// straight returns the unrouted polyline between the anchors of l.
func straight(l *Link) core.PointList {
	src := l.source.Location(l.target.ReferencePoint())
	dst := l.target.Location(l.source.ReferencePoint())
	return core.PointList{src, dst}
}
