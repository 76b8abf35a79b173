package diagram

import "mtroute/core"

// Subscription is returned by every listener registration. Calling
// Unsubscribe more than once is harmless.
type Subscription interface {
	Unsubscribe()
}

// Figure is a rectangular element connections are routed around.
type Figure interface {
	// Bounds returns the figure's current rectangle.
	Bounds() core.Rect

	// AddBoundsListener registers fn to be called after the bounds change.
	AddBoundsListener(fn func(Figure)) Subscription
}

// ContainerListener receives structural events from a Container.
type ContainerListener interface {
	ChildAdded(child Figure)
	ChildRemoved(child Figure)

	// LayoutComplete is called once a layout pass over the children finished.
	LayoutComplete()
}

// Container owns the figures and connections of one drawing surface.
type Container interface {
	// Children returns the current child figures in z-order.
	Children() []Figure

	// ClientArea returns the rectangle routes are confined to. An empty
	// rectangle leaves the area unbounded.
	ClientArea() core.Rect

	AddContainerListener(l ContainerListener) Subscription
}

// Anchor attaches one end of a connection to a figure.
type Anchor interface {
	// Owner returns the figure the anchor is attached to, or nil for
	// free-floating anchors.
	Owner() Figure

	// ReferencePoint returns the point the anchor is nominally at.
	ReferencePoint() core.Point

	// Location returns where a line arriving from ref touches the anchor.
	Location(ref core.Point) core.Point
}

// Bendpoint is a user-placed point a route must pass through.
type Bendpoint interface {
	Location() core.Point
}

// Connection is a directed edge between two anchors.
type Connection interface {
	SourceAnchor() Anchor
	TargetAnchor() Anchor

	// Revalidate asks the owner of the connection to route it again.
	Revalidate()

	// SetPoints publishes the routed polyline.
	SetPoints(points core.PointList)
}

// ConnectionRouter determines how connections on a surface are routed.
type ConnectionRouter interface {
	// Route brings the connection's polyline up to date.
	Route(conn Connection)

	// Invalidate reports that the connection's routing inputs changed.
	Invalidate(conn Connection)

	// Remove forgets the connection.
	Remove(conn Connection)

	// SetConstraint sets the bend points the connection must visit.
	SetConstraint(conn Connection, bends []Bendpoint)
}
