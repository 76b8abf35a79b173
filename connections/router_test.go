package connections

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtroute/core"
	"mtroute/diagram"
	"mtroute/geometry"
)

// spyConnection behaves like a framework connection whose revalidation
// reports straight back to the router.
type spyConnection struct {
	router        *Router
	source        diagram.Anchor
	target        diagram.Anchor
	revalidations int
	points        core.PointList
}

func (c *spyConnection) SourceAnchor() diagram.Anchor { return c.source }
func (c *spyConnection) TargetAnchor() diagram.Anchor { return c.target }
func (c *spyConnection) SetPoints(pts core.PointList) { c.points = pts }
func (c *spyConnection) Revalidate() {
	c.revalidations++
	c.router.Invalidate(c)
}

type fixture struct {
	surface *diagram.Surface
	router  *Router
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	s := diagram.NewSurface(core.Rect{})
	r := NewRouter(s, opts...)
	s.SetRouter(r)
	return &fixture{surface: s, router: r}
}

func (f *fixture) node(t *testing.T, name string, bounds core.Rect) *diagram.Node {
	t.Helper()
	n := diagram.NewNode(name, bounds, "")
	require.NoError(t, f.surface.AddNode(n))
	return n
}

func (f *fixture) link(t *testing.T, name string, from, to *diagram.Node) *diagram.Link {
	t.Helper()
	l, err := f.surface.ConnectNodes(name, from, to)
	require.NoError(t, err)
	return l
}

func boundsOf(nodes ...*diagram.Node) []core.Rect {
	out := make([]core.Rect, len(nodes))
	for i, n := range nodes {
		out[i] = n.Bounds()
	}
	return out
}

func TestRouter_EndToEnd(t *testing.T) {
	f := newFixture(t, WithSpacing(4))
	f.node(t, "block", core.Rect{X: 50, Y: 0, Width: 40, Height: 40})

	from, to := core.Point{X: 0, Y: 20}, core.Point{X: 100, Y: 20}
	l, err := f.surface.Connect("c", diagram.FixedAnchor{At: from}, diagram.FixedAnchor{At: to})
	require.NoError(t, err)

	f.surface.Validate()

	pts := l.Points()
	require.GreaterOrEqual(t, len(pts), 2)
	assert.Equal(t, from, pts.First())
	assert.Equal(t, to, pts.Last())
	assert.True(t, geometry.IsOrthogonal(pts), "route %v is not axis-aligned", pts)
	assert.False(t, geometry.PolylineCrossesRect(pts, core.Rect{X: 46, Y: -4, Width: 48, Height: 48}),
		"route %v enters the obstacle clearance", pts)
}

func TestRouter_IdempotentRoute(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 40, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)

	f.surface.Validate()
	require.Equal(t, 1, f.router.Stats().Solves)
	require.False(t, f.router.IsDirty())
	first := l.Points().Copy()
	updates := l.Updates()

	f.router.Route(l)
	f.router.Route(l)

	assert.Equal(t, 1, f.router.Stats().Solves)
	assert.Equal(t, updates, l.Updates())
	if diff := cmp.Diff(first, l.Points()); diff != "" {
		t.Errorf("polyline changed without input change (-want +got):\n%s", diff)
	}
}

func TestRouter_CoalescesInvalidations(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	f.node(t, "c", core.Rect{X: 50, Y: -20, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)
	f.surface.Validate()
	require.Equal(t, 1, f.router.Stats().Solves)

	f.surface.Move(a, 0, 5)
	f.surface.Move(a, 0, 5)
	f.surface.Move(b, 0, 10)
	f.surface.SetConstraint(l, core.Point{X: 60, Y: 50})
	f.router.Invalidate(l)

	assert.Equal(t, 1, f.surface.Pending())
	f.surface.Validate()

	assert.Equal(t, 2, f.router.Stats().Solves, "changes between two routing cycles must be solved once")
	assert.False(t, f.router.IsDirty())
}

func TestRouter_ReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	blocker := f.node(t, "blocker", core.Rect{X: 300, Y: 300, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)
	f.surface.Validate()
	require.Zero(t, f.surface.Pending())

	// Moving an unattached obstacle onto the route makes the router nudge
	// the framework by revalidating its first connection.
	f.surface.SetBounds(blocker, core.Rect{X: 50, Y: 0, Width: 20, Height: 20})

	assert.True(t, f.router.IsDirty())
	assert.False(t, f.router.IsStale(l), "internally triggered revalidation must not mark the connection stale")
	assert.Equal(t, 1, f.surface.Pending())
	assert.False(t, f.router.IgnoringInvalidations())

	f.surface.Validate()
	assert.Equal(t, 2, f.router.Stats().Solves)
	assert.False(t, geometry.PolylineCrossesRect(l.Points(), blocker.Bounds().Expand(f.router.Spacing())))
	assert.Zero(t, f.surface.Pending())
}

func TestRouter_GuardRestoresPreviousValue(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	f.link(t, "ab", a, b)
	f.surface.Validate()

	f.router.SetIgnoreInvalidations(true)
	f.router.SetSpacing(10)
	assert.True(t, f.router.IgnoringInvalidations())

	f.router.SetIgnoreInvalidations(false)
	f.router.SetSpacing(2)
	assert.False(t, f.router.IgnoringInvalidations())
}

func TestRouter_ObstacleConsistency(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	c := f.node(t, "c", core.Rect{X: 300, Y: 300, Width: 20, Height: 20})
	f.link(t, "ab", a, b)
	f.surface.Validate()

	f.surface.Move(c, 10, 0)
	f.surface.SetBounds(c, core.Rect{X: 400, Y: 300, Width: 30, Height: 30})
	f.surface.Move(a, 0, 5)
	assert.ElementsMatch(t, boundsOf(a, b, c), f.router.Obstacles())

	f.surface.Validate()
	require.False(t, f.router.IsDirty())

	require.NoError(t, f.surface.RemoveNode(c))
	assert.ElementsMatch(t, boundsOf(a, b), f.router.Obstacles())
	assert.False(t, f.router.IsDirty(), "removing a node no route cares about must not dirty the router")

	d := f.node(t, "d", core.Rect{X: 500, Y: 500, Width: 10, Height: 10})
	assert.ElementsMatch(t, boundsOf(a, b, d), f.router.Obstacles())
}

func TestRouter_ConstraintRoundTrip(t *testing.T) {
	f := newFixture(t)
	from, to := core.Point{X: 0, Y: 20}, core.Point{X: 100, Y: 20}
	l, err := f.surface.Connect("c", diagram.FixedAnchor{At: from}, diagram.FixedAnchor{At: to})
	require.NoError(t, err)

	f.surface.SetConstraint(l, core.Point{X: 10, Y: 10}, core.Point{X: 10, Y: 50})
	f.surface.Validate()

	want := []diagram.Bendpoint{diagram.Bend{X: 10, Y: 10}, diagram.Bend{X: 10, Y: 50}}
	assert.Equal(t, want, f.router.Constraint(l))

	pts := l.Points()
	require.GreaterOrEqual(t, len(pts), 2)
	assert.Equal(t, from, pts.First())
	assert.Equal(t, to, pts.Last())
	assert.True(t, geometry.IsOrthogonal(pts))

	i := indexOnPolyline(pts, core.Point{X: 10, Y: 10}, 0)
	require.GreaterOrEqual(t, i, 0, "route %v misses (10,10)", pts)
	assert.GreaterOrEqual(t, indexOnPolyline(pts, core.Point{X: 10, Y: 50}, i), 0, "route %v misses (10,50) after (10,10)", pts)

	f.surface.SetConstraint(l)
	f.surface.Validate()
	assert.Nil(t, f.router.Constraint(l))
	assert.Equal(t, core.PointList{from, to}, l.Points())
}

// indexOnPolyline returns the index of the first segment at or after start
// that contains p, or -1.
func indexOnPolyline(pts core.PointList, p core.Point, start int) int {
	for i := start; i < len(pts)-1; i++ {
		r := core.NewRect(pts[i], pts[i+1])
		if p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom() {
			return i
		}
	}
	return -1
}

func TestRouter_TeardownAndBringUp(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	c := f.node(t, "c", core.Rect{X: 50, Y: 50, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)
	f.surface.Validate()

	require.True(t, f.router.Active())
	require.Equal(t, 1, f.surface.ContainerListeners())
	require.Equal(t, 1, c.BoundsListeners())

	f.surface.Disconnect(l)

	assert.False(t, f.router.Active())
	assert.False(t, f.router.HasMoreConnections())
	assert.False(t, f.router.ContainsConnection(l))
	assert.Zero(t, f.surface.ContainerListeners())
	for _, n := range []*diagram.Node{a, b, c} {
		assert.Zero(t, n.BoundsListeners(), "node %s still observed", n.Name())
	}
	assert.Empty(t, f.router.Obstacles())

	stats := f.router.Stats()
	f.surface.Move(c, 0, -50)
	f.surface.Validate()
	assert.Empty(t, f.router.Obstacles())
	assert.Equal(t, stats, f.router.Stats())

	l2 := f.link(t, "ba", b, a)
	f.surface.SetConstraint(l2, core.Point{X: 60, Y: 60})
	f.surface.Validate()

	assert.True(t, f.router.Active())
	assert.True(t, f.router.ContainsConnection(l2))
	assert.Equal(t, 2, f.router.Stats().Activations)
	assert.Equal(t, 1, f.surface.ContainerListeners())
	assert.ElementsMatch(t, boundsOf(a, b, c), f.router.Obstacles())
	assert.NotNil(t, l2.Points())
}

func TestRouter_FailedRouteKeepsPreviousPolyline(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := newFixture(t, WithSpacing(0), WithLogger(logger))

	l, err := f.surface.Connect("c", diagram.FixedAnchor{At: core.Point{}}, diagram.FixedAnchor{At: core.Point{X: 100, Y: 100}})
	require.NoError(t, err)
	f.surface.Validate()
	before := l.Points().Copy()
	require.NotNil(t, before)
	updates := l.Updates()

	for i, r := range []core.Rect{
		{X: 80, Y: 80, Width: 40, Height: 10},
		{X: 80, Y: 110, Width: 40, Height: 10},
		{X: 80, Y: 80, Width: 10, Height: 40},
		{X: 110, Y: 80, Width: 10, Height: 40},
	} {
		f.node(t, string(rune('w'+i)), r)
	}
	require.True(t, f.router.IsDirty())

	f.router.Route(l)

	assert.Equal(t, 1, f.router.Stats().Failed)
	assert.Equal(t, updates, l.Updates())
	assert.Equal(t, before, l.Points())
	assert.Contains(t, logs.String(), "no route found")
	assert.Contains(t, logs.String(), "session=active")
	assert.Contains(t, logs.String(), "route published")
}

func TestRouter_LayoutCompleteRevalidatesStale(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	f.link(t, "ab", a, b)
	f.surface.Validate()

	spy := &spyConnection{router: f.router, source: diagram.NewChopboxAnchor(a), target: diagram.NewChopboxAnchor(b)}
	f.surface.Layout()
	assert.Zero(t, spy.revalidations, "nothing stale, nothing to revalidate")

	f.router.Invalidate(spy)
	f.surface.Layout()
	assert.Equal(t, 1, spy.revalidations)

	f.router.Route(spy)
	assert.True(t, f.router.ContainsConnection(spy))
	assert.NotNil(t, spy.points)
	assert.False(t, f.router.IsStale(spy), "publishing must not mark the connection stale again")
}

func TestRouter_UnknownConnections(t *testing.T) {
	f := newFixture(t)
	ghost := &spyConnection{router: f.router}

	f.router.Remove(ghost)
	f.router.Remove(nil)
	f.router.Invalidate(nil)

	assert.False(t, f.router.IsDirty())
	assert.False(t, f.router.HasMoreConnections())
	assert.Nil(t, f.router.Constraint(ghost))
}

func TestRouter_SetSpacing(t *testing.T) {
	f := newFixture(t)
	f.node(t, "block", core.Rect{X: 50, Y: 0, Width: 40, Height: 40})
	l, err := f.surface.Connect("c", diagram.FixedAnchor{At: core.Point{X: 0, Y: 20}}, diagram.FixedAnchor{At: core.Point{X: 100, Y: 20}})
	require.NoError(t, err)
	f.surface.Validate()

	f.router.SetSpacing(f.router.Spacing())
	assert.False(t, f.router.IsDirty())

	f.router.SetSpacing(10)
	assert.True(t, f.router.IsDirty())
	assert.Equal(t, 1, f.surface.Pending())

	f.surface.Validate()
	assert.False(t, geometry.PolylineCrossesRect(l.Points(), core.Rect{X: 40, Y: -10, Width: 60, Height: 60}),
		"route %v ignores the wider clearance", l.Points())
}

func TestRouter_Close(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)
	f.surface.SetConstraint(l, core.Point{X: 60, Y: 60})
	f.surface.Validate()

	f.router.Close()

	assert.False(t, f.router.Active())
	assert.False(t, f.router.HasMoreConnections())
	assert.False(t, f.router.IsDirty())
	assert.Nil(t, f.router.Constraint(l))
	assert.Zero(t, f.surface.ContainerListeners())
	assert.Same(t, f.surface, f.router.Container())
}

func TestRouter_RemoveLastConnectionClearsDirty(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", core.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	b := f.node(t, "b", core.Rect{X: 100, Y: 0, Width: 20, Height: 20})
	l := f.link(t, "ab", a, b)
	f.surface.Validate()
	solves := f.router.Stats().Solves

	f.router.Remove(l)
	assert.False(t, f.router.IsDirty())
	f.router.Route(l)
	assert.Equal(t, solves, f.router.Stats().Solves)

	// a connection invalidated but never routed still gets its solve
	l2 := f.link(t, "ba", b, a)
	f.surface.Validate()
	spy := &spyConnection{
		router: f.router,
		source: diagram.FixedAnchor{At: core.Point{X: 0, Y: 50}},
		target: diagram.FixedAnchor{At: core.Point{X: 60, Y: 50}},
	}
	f.router.Invalidate(spy)
	f.router.Remove(l2)

	require.True(t, f.router.IsDirty())
	f.router.Route(spy)
	assert.Equal(t, solves+2, f.router.Stats().Solves)
	assert.NotNil(t, spy.points)
}

func TestRouter_ClipsRouteBendingInsideSource(t *testing.T) {
	f := newFixture(t, WithSpacing(2))
	a := f.node(t, "a", core.Rect{X: 108, Y: 80, Width: 15, Height: 13})
	b := f.node(t, "b", core.Rect{X: 103, Y: 116, Width: 16, Height: 6})
	l := f.link(t, "ab", a, b)

	f.surface.Validate()

	want := core.PointList{{X: 111, Y: 93}, {X: 111, Y: 116}}
	if diff := cmp.Diff(want, l.Points()); diff != "" {
		t.Errorf("published route mismatch (-want +got):\n%s", diff)
	}
	checkClipped(t, l)
}

func TestRouter_PublishedRoutesLeaveEndFiguresOnce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for scene := 0; scene < 40; scene++ {
		t.Run(fmt.Sprintf("scene%02d", scene), func(t *testing.T) {
			f := newFixture(t, WithSpacing(2))
			var nodes []*diagram.Node
			for len(nodes) < 4 {
				r := core.Rect{
					X:      rng.IntN(120),
					Y:      rng.IntN(60),
					Width:  4 + rng.IntN(14),
					Height: 3 + rng.IntN(10),
				}
				if overlapsAny(r.Expand(3), nodes) {
					continue
				}
				nodes = append(nodes, f.node(t, fmt.Sprintf("n%d", len(nodes)), r))
			}
			var links []*diagram.Link
			for i := 0; i+1 < len(nodes); i++ {
				links = append(links, f.link(t, fmt.Sprintf("l%d", i), nodes[i], nodes[i+1]))
			}

			f.surface.Validate()

			for _, l := range links {
				checkClipped(t, l)
			}
		})
	}
}

func overlapsAny(r core.Rect, nodes []*diagram.Node) bool {
	for _, n := range nodes {
		if r.Intersects(n.Bounds()) {
			return true
		}
	}
	return false
}

// checkClipped asserts that a published route starts and ends on the borders
// of its figures, leaves them straight away and has no zero-length segment.
func checkClipped(t *testing.T, l *diagram.Link) {
	t.Helper()
	pts := l.Points()
	if pts == nil {
		return
	}
	require.GreaterOrEqual(t, len(pts), 2, "route %s", l.Name())
	for i := 0; i < len(pts)-1; i++ {
		assert.NotEqual(t, pts[i], pts[i+1], "route %s %v repeats a point", l.Name(), pts)
	}
	assert.True(t, geometry.IsOrthogonal(pts), "route %s %v is not axis-aligned", l.Name(), pts)

	src := l.SourceAnchor().Owner().Bounds()
	tgt := l.TargetAnchor().Owner().Bounds()
	n := len(pts)
	assert.True(t, onBorder(src, pts[0]), "route %s %v starts off %v", l.Name(), pts, src)
	assert.True(t, onBorder(tgt, pts[n-1]), "route %s %v ends off %v", l.Name(), pts, tgt)
	assert.False(t, src.ContainsInterior(pts[1]), "route %s %v runs back into %v", l.Name(), pts, src)
	assert.False(t, tgt.ContainsInterior(pts[n-2]), "route %s %v runs back into %v", l.Name(), pts, tgt)
}

func onBorder(r core.Rect, p core.Point) bool {
	inside := p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
	return inside && !r.ContainsInterior(p)
}
