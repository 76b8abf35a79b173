package connections

import "mtroute/diagram"

// layoutTracker turns container and obstacle events into registry and
// scheduler calls. It is subscribed only while the session is active.
type layoutTracker struct {
	r *Router
}

func (t *layoutTracker) ChildAdded(child diagram.Figure) {
	t.r.registry.Register(child)
}

func (t *layoutTracker) ChildRemoved(child diagram.Figure) {
	t.r.registry.Unregister(child)
}

// LayoutComplete prompts the framework to route again if anything is stale.
func (t *layoutTracker) LayoutComplete() {
	if conn := t.r.stale.first(); conn != nil {
		conn.Revalidate()
	}
}

func (t *layoutTracker) MarkDirty() {
	t.r.dirty = true
}

func (t *layoutTracker) RequestRerouting() {
	t.r.requestRerouting()
}
