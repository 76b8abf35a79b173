package diagram

import (
	"mtroute/core"
	"mtroute/geometry"
)

// ChopboxAnchor attaches a connection to the border of its owner, where the
// line towards the reference point leaves the box.
type ChopboxAnchor struct {
	owner Figure
}

// NewChopboxAnchor returns an anchor on the border of owner.
func NewChopboxAnchor(owner Figure) *ChopboxAnchor {
	return &ChopboxAnchor{owner: owner}
}

func (a *ChopboxAnchor) Owner() Figure {
	return a.owner
}

// ReferencePoint returns the center of the owner.
func (a *ChopboxAnchor) ReferencePoint() core.Point {
	return a.owner.Bounds().Center()
}

func (a *ChopboxAnchor) Location(ref core.Point) core.Point {
	return geometry.ChopboxLocation(a.owner.Bounds(), ref)
}

// FixedAnchor is a free-floating anchor at a fixed point.
type FixedAnchor struct {
	At core.Point
}

// Owner returns nil; fixed anchors belong to no figure.
func (a FixedAnchor) Owner() Figure {
	return nil
}

func (a FixedAnchor) ReferencePoint() core.Point {
	return a.At
}

func (a FixedAnchor) Location(core.Point) core.Point {
	return a.At
}

// Bend is an absolute bend point constraint.
type Bend core.Point

func (b Bend) Location() core.Point {
	return core.Point(b)
}

// Bends converts points into bend point constraints.
func Bends(points ...core.Point) []Bendpoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]Bendpoint, len(points))
	for i, p := range points {
		out[i] = Bend(p)
	}
	return out
}
