package diagram

import (
	"mtroute/core"
)

// Link is a connection between two anchors on a Surface.
type Link struct {
	name    string
	source  Anchor
	target  Anchor
	points  core.PointList
	updates int
	surface *Surface
	subs    []Subscription
}

// Name returns the identifier the link was created with.
func (l *Link) Name() string {
	return l.name
}

func (l *Link) SourceAnchor() Anchor {
	return l.source
}

func (l *Link) TargetAnchor() Anchor {
	return l.target
}

// Revalidate queues the link for routing on the next Surface.Validate and
// tells the surface's router that its inputs changed.
func (l *Link) Revalidate() {
	if l.surface != nil {
		l.surface.revalidate(l)
	}
}

// SetPoints stores the routed polyline.
func (l *Link) SetPoints(points core.PointList) {
	l.points = points.Copy()
	l.updates++
}

// Points returns the last published polyline.
func (l *Link) Points() core.PointList {
	return l.points
}

// Updates returns how many times a polyline was published to the link.
func (l *Link) Updates() int {
	return l.updates
}

func (l *Link) String() string {
	return l.name
}

// attached reports whether either end of the link is owned by fig.
func (l *Link) attached(fig Figure) bool {
	return ownedBy(l.source, fig) || ownedBy(l.target, fig)
}

func ownedBy(a Anchor, fig Figure) bool {
	if a == nil {
		return false
	}
	owner := a.Owner()
	return owner != nil && owner == fig
}

func (l *Link) unsubscribe() {
	for _, s := range l.subs {
		s.Unsubscribe()
	}
	l.subs = nil
}
