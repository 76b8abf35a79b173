package validation

import (
	"fmt"

	"mtroute/core"
	"mtroute/diagram"
	"mtroute/geometry"
)

// RouteIssue describes a routed link that breaks a routing rule.
type RouteIssue struct {
	Link    string
	Message string
}

func (i RouteIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Link, i.Message)
}

// RouteChecker verifies the polylines of a surface's links: they must be
// orthogonal, start and end on their anchors' figures, stay clear of other
// figures by Spacing and pass through their bend constraints in order.
type RouteChecker struct {
	Spacing int
	// Constraint returns the bend constraint of a link, if any.
	Constraint func(*diagram.Link) []diagram.Bendpoint
}

// Check returns every issue found on s. Links without points are skipped.
func (c *RouteChecker) Check(s *diagram.Surface) []RouteIssue {
	var issues []RouteIssue
	for _, l := range s.Links() {
		for _, msg := range c.checkLink(s, l) {
			issues = append(issues, RouteIssue{Link: l.Name(), Message: msg})
		}
	}
	return issues
}

func (c *RouteChecker) checkLink(s *diagram.Surface, l *diagram.Link) []string {
	pts := l.Points()
	if len(pts) == 0 {
		return nil
	}
	if len(pts) < 2 {
		return []string{"route has fewer than 2 points"}
	}

	var out []string
	if !geometry.IsOrthogonal(pts) {
		out = append(out, "route is not orthogonal")
	}
	if !endsOn(l.SourceAnchor(), pts.First()) {
		out = append(out, fmt.Sprintf("route starts at %s, away from its source", pts.First()))
	}
	if !endsOn(l.TargetAnchor(), pts.Last()) {
		out = append(out, fmt.Sprintf("route ends at %s, away from its target", pts.Last()))
	}

	src, tgt := l.SourceAnchor().ReferencePoint(), l.TargetAnchor().ReferencePoint()
	for _, n := range s.Nodes() {
		zone := n.Bounds().Expand(c.Spacing)
		if zone.Contains(src) || zone.Contains(tgt) {
			continue
		}
		if geometry.PolylineCrossesRect(pts, zone) {
			out = append(out, fmt.Sprintf("route crosses %s", n.Name()))
		}
	}

	if c.Constraint != nil {
		if msg := bendsInOrder(pts, c.Constraint(l)); msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

// endsOn reports whether p lies on or inside the figure owning a, or at the
// anchor location when a has no owner.
func endsOn(a diagram.Anchor, p core.Point) bool {
	owner := a.Owner()
	if owner == nil {
		return a.Location(p) == p
	}
	b := owner.Bounds()
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// bendsInOrder checks that the polyline visits every bend, in order.
func bendsInOrder(pts core.PointList, bends []diagram.Bendpoint) string {
	seg := 0
	for i, b := range bends {
		loc := b.Location()
		found := false
		for ; seg < len(pts)-1; seg++ {
			if geometry.OnSegment(pts[seg], pts[seg+1], loc) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("route misses bend %d at %s", i, loc)
		}
	}
	return ""
}
