package pathfinding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mtroute/core"
	"mtroute/geometry"
)

// passesThrough reports whether p lies on some segment of the polyline,
// searching from segment index start. It returns the segment index found.
func passesThrough(points core.PointList, p core.Point, start int) (int, bool) {
	for i := start; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.X == b.X && p.X == a.X && p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y) {
			return i, true
		}
		if a.Y == b.Y && p.Y == a.Y && p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) {
			return i, true
		}
	}
	return 0, false
}

func assertLegal(t *testing.T, pts core.PointList, from, to core.Point, obstacles []core.Rect) {
	t.Helper()
	if len(pts) < 2 {
		t.Fatalf("route has %d points, want at least 2: %v", len(pts), pts)
	}
	if pts.First() != from || pts.Last() != to {
		t.Errorf("route runs %v -> %v, want %v -> %v", pts.First(), pts.Last(), from, to)
	}
	if !geometry.IsOrthogonal(pts) {
		t.Errorf("route is not orthogonal: %v", pts)
	}
	for _, o := range obstacles {
		if geometry.PolylineCrossesRect(pts, o) {
			t.Errorf("route %v crosses obstacle %v", pts, o)
		}
	}
}

func TestMazeRouter_StraightRoute(t *testing.T) {
	m := NewMazeRouter()
	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 0})
	p.SetEndPoint(core.Point{X: 100, Y: 0})
	m.AddPath(p)

	updated := m.Solve()
	if len(updated) != 1 || updated[0] != p {
		t.Fatalf("Solve() returned %v, want the single path", updated)
	}
	want := core.PointList{{X: 0, Y: 0}, {X: 100, Y: 0}}
	if diff := cmp.Diff(want, p.Points()); diff != "" {
		t.Errorf("route mismatch (-want +got):\n%s", diff)
	}
	if p.IsDirty() {
		t.Error("path still dirty after Solve")
	}
}

func TestMazeRouter_RoutesAroundObstacle(t *testing.T) {
	m := NewMazeRouter()
	m.SetSpacing(4)
	obstacle := core.Rect{X: 50, Y: 0, Width: 40, Height: 40}
	m.AddObstacle(obstacle)

	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 20})
	p.SetEndPoint(core.Point{X: 100, Y: 20})
	m.AddPath(p)
	m.Solve()

	assertLegal(t, p.Points(), core.Point{X: 0, Y: 20}, core.Point{X: 100, Y: 20}, []core.Rect{obstacle.Expand(4)})
	if bends := geometry.Bends(p.Points()); bends != 2 {
		t.Errorf("route %v has %d bends, want 2", p.Points(), bends)
	}
}

func TestMazeRouter_IgnoresEndpointFigures(t *testing.T) {
	m := NewMazeRouter()
	source := core.Rect{X: 0, Y: 0, Width: 20, Height: 20}
	target := core.Rect{X: 100, Y: 0, Width: 20, Height: 20}
	middle := core.Rect{X: 50, Y: -10, Width: 20, Height: 40}
	m.AddObstacle(source)
	m.AddObstacle(target)
	m.AddObstacle(middle)

	p := NewPath("a")
	p.SetStartPoint(source.Center())
	p.SetEndPoint(target.Center())
	m.AddPath(p)
	m.Solve()

	assertLegal(t, p.Points(), source.Center(), target.Center(), []core.Rect{middle.Expand(m.Spacing())})
}

func TestMazeRouter_BendConstraints(t *testing.T) {
	m := NewMazeRouter()
	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 20})
	p.SetEndPoint(core.Point{X: 100, Y: 20})
	p.SetBendPoints(core.PointList{{X: 10, Y: 10}, {X: 10, Y: 50}})
	m.AddPath(p)
	m.Solve()

	pts := p.Points()
	assertLegal(t, pts, core.Point{X: 0, Y: 20}, core.Point{X: 100, Y: 20}, nil)

	i, ok := passesThrough(pts, core.Point{X: 10, Y: 10}, 0)
	if !ok {
		t.Fatalf("route %v does not pass through (10,10)", pts)
	}
	if _, ok := passesThrough(pts, core.Point{X: 10, Y: 50}, i); !ok {
		t.Errorf("route %v does not pass through (10,50) after (10,10)", pts)
	}
}

func TestMazeRouter_UnroutableTarget(t *testing.T) {
	m := NewMazeRouter()
	m.SetSpacing(0)
	for _, r := range []core.Rect{
		{X: 80, Y: 80, Width: 40, Height: 10},
		{X: 80, Y: 110, Width: 40, Height: 10},
		{X: 80, Y: 80, Width: 10, Height: 40},
		{X: 110, Y: 80, Width: 10, Height: 40},
	} {
		m.AddObstacle(r)
	}

	p := NewPath("boxed")
	p.SetStartPoint(core.Point{X: 0, Y: 0})
	p.SetEndPoint(core.Point{X: 100, Y: 100})
	m.AddPath(p)

	updated := m.Solve()
	if len(updated) != 1 {
		t.Fatalf("Solve() returned %d paths, want 1", len(updated))
	}
	if updated[0].Points() != nil {
		t.Errorf("expected no route into a closed box, got %v", updated[0].Points())
	}
}

func TestMazeRouter_AvoidsCollinearOverlap(t *testing.T) {
	m := NewMazeRouter()
	a := NewPath("a")
	a.SetStartPoint(core.Point{X: 0, Y: 0})
	a.SetEndPoint(core.Point{X: 100, Y: 0})
	b := NewPath("b")
	b.SetStartPoint(core.Point{X: 0, Y: 0})
	b.SetEndPoint(core.Point{X: 100, Y: 0})
	m.AddPath(a)
	m.AddPath(b)
	m.Solve()

	assertLegal(t, a.Points(), core.Point{X: 0, Y: 0}, core.Point{X: 100, Y: 0}, nil)
	assertLegal(t, b.Points(), core.Point{X: 0, Y: 0}, core.Point{X: 100, Y: 0}, nil)

	for _, sa := range appendSegments(nil, a.Points()) {
		for _, sb := range appendSegments(nil, b.Points()) {
			if sa.horizontal == sb.horizontal && sa.fixed == sb.fixed && sa.lo < sb.hi && sb.lo < sa.hi {
				t.Errorf("routes overlap: %v and %v", a.Points(), b.Points())
			}
		}
	}
}

func TestMazeRouter_SolveOnlyDirtyPaths(t *testing.T) {
	m := NewMazeRouter()
	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 0})
	p.SetEndPoint(core.Point{X: 50, Y: 50})
	m.AddPath(p)

	if got := len(m.Solve()); got != 1 {
		t.Fatalf("first Solve() updated %d paths, want 1", got)
	}
	if got := len(m.Solve()); got != 0 {
		t.Errorf("second Solve() updated %d paths, want 0", got)
	}

	p.SetEndPoint(core.Point{X: 50, Y: 50})
	if p.IsDirty() {
		t.Error("setting the same end point marked the path dirty")
	}
	p.SetEndPoint(core.Point{X: 60, Y: 50})
	if got := len(m.Solve()); got != 1 {
		t.Errorf("Solve() after moving the end updated %d paths, want 1", got)
	}
}

func TestMazeRouter_ObstacleSignificance(t *testing.T) {
	m := NewMazeRouter()
	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 20})
	p.SetEndPoint(core.Point{X: 100, Y: 20})
	m.AddPath(p)

	far := core.Rect{X: 500, Y: 500, Width: 10, Height: 10}
	near := core.Rect{X: 50, Y: 0, Width: 40, Height: 40}

	m.AddObstacle(far)
	m.AddObstacle(near)
	m.Solve()

	tests := []struct {
		name string
		op   func() bool
		want bool
	}{
		{"same bounds", func() bool { return m.UpdateObstacle(far, far) }, false},
		{"far obstacle moves far", func() bool { return m.UpdateObstacle(far, far.Translate(10, 0)) }, false},
		{"unknown obstacle removed", func() bool { return m.RemoveObstacle(core.Rect{X: 1, Y: 1, Width: 1, Height: 1}) }, false},
		{"far obstacle removed", func() bool { return m.RemoveObstacle(far.Translate(10, 0)) }, false},
		{"near obstacle moves", func() bool { return m.UpdateObstacle(near, near.Translate(0, 5)) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.want {
				t.Errorf("significant = %v, want %v", got, tt.want)
			}
			if p.IsDirty() != tt.want {
				t.Errorf("path dirty = %v, want %v", p.IsDirty(), tt.want)
			}
		})
	}

	want := []core.Rect{near.Translate(0, 5)}
	if diff := cmp.Diff(want, m.Obstacles()); diff != "" {
		t.Errorf("obstacle set mismatch (-want +got):\n%s", diff)
	}
}

func TestMazeRouter_SpacingInvalidatesPaths(t *testing.T) {
	m := NewMazeRouter()
	p := NewPath("a")
	p.SetStartPoint(core.Point{X: 0, Y: 0})
	p.SetEndPoint(core.Point{X: 10, Y: 10})
	m.AddPath(p)
	m.Solve()

	m.SetSpacing(m.Spacing())
	if p.IsDirty() {
		t.Error("re-applying the same spacing marked the path dirty")
	}
	m.SetSpacing(8)
	if !p.IsDirty() {
		t.Error("changing spacing did not mark the path dirty")
	}
}

func TestMazeRouter_RemovePath(t *testing.T) {
	m := NewMazeRouter()
	a := NewPath("a")
	a.SetStartPoint(core.Point{X: 0, Y: 0})
	a.SetEndPoint(core.Point{X: 100, Y: 0})
	b := NewPath("b")
	b.SetStartPoint(core.Point{X: 0, Y: 0})
	b.SetEndPoint(core.Point{X: 100, Y: 0})
	m.AddPath(a)
	m.AddPath(b)
	m.Solve()

	m.RemovePath(a)
	if len(m.Paths()) != 1 {
		t.Fatalf("Paths() has %d entries, want 1", len(m.Paths()))
	}
	if !b.IsDirty() {
		t.Error("path deflected by the removed route was not invalidated")
	}

	m.Solve()
	want := core.PointList{{X: 0, Y: 0}, {X: 100, Y: 0}}
	if diff := cmp.Diff(want, b.Points()); diff != "" {
		t.Errorf("route after removal mismatch (-want +got):\n%s", diff)
	}
}
