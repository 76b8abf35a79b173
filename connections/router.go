// Package connections keeps the orthogonal routes of a container's
// connections up to date, solving again only when something changed.
package connections

import (
	"log/slog"

	"mtroute/core"
	"mtroute/diagram"
	"mtroute/geometry"
	"mtroute/obstacles"
	"mtroute/pathfinding"
)

// Router routes the connections of one container. Invalidations between two
// Route calls are coalesced into a single solve pass.
//
// Router is driven from the container's event loop and is not safe for
// concurrent use.
type Router struct {
	container   diagram.Container
	maze        *pathfinding.MazeRouter
	registry    *obstacles.Registry
	store       *pathStore
	stale       *staleSet
	constraints map[diagram.Connection][]diagram.Bendpoint
	tracker     *layoutTracker

	dirty    bool
	ignoring bool
	session  sessionState
	sub      diagram.Subscription

	resolve EndpointResolver
	logger  *slog.Logger
	stats   Stats
}

var _ diagram.ConnectionRouter = (*Router)(nil)

// NewRouter creates a router bound to container.
func NewRouter(container diagram.Container, opts ...Option) *Router {
	r := &Router{
		container:   container,
		maze:        pathfinding.NewMazeRouter(),
		stale:       newStaleSet(),
		constraints: make(map[diagram.Connection][]diagram.Bendpoint),
		resolve:     CenterEndpoint,
		logger:      discardLogger(),
	}
	r.tracker = &layoutTracker{r: r}
	r.registry = obstacles.NewRegistry(r.maze, r.tracker)
	r.store = newPathStore(r.maze)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route brings every stale connection up to date and publishes the routes
// that changed. It does nothing unless some input changed since the last
// call.
func (r *Router) Route(conn diagram.Connection) {
	if !r.dirty {
		return
	}
	defer r.guard()()

	stale := r.stale.drain()
	for _, c := range stale {
		r.activate()
		derive(r.store.ensure(c), c, r.constraints[c], r.resolve)
	}
	r.dirty = false
	if r.store.len() == 0 {
		return
	}

	r.maze.SetClientArea(r.container.ClientArea())
	updated := r.maze.Solve()
	r.stats.Solves++
	r.logger.Debug("solve pass", "session", r.session.String(), "stale", len(stale), "updated", len(updated), "paths", r.store.len())

	for _, p := range updated {
		r.publish(p)
	}
}

// publish clips a solved route to the anchors of its connection and hands it
// over. Failed routes leave the previous polyline in place.
func (r *Router) publish(p *pathfinding.Path) {
	conn, ok := p.Owner().(diagram.Connection)
	if !ok || conn == nil {
		return
	}
	points := p.Points()
	if points == nil {
		r.stats.Failed++
		r.logger.Warn("no route found", "connection", conn, "start", p.StartPoint(), "end", p.EndPoint())
		return
	}

	defer r.guard()()
	conn.Revalidate()

	out := clipRoute(points, conn.SourceAnchor(), conn.TargetAnchor())
	conn.SetPoints(out)
	r.stats.Published++
	r.logger.Debug("route published", "connection", conn, "points", len(out), "length", geometry.Length(out), "bends", geometry.Bends(out))
}

// Invalidate marks conn stale. Invalidations caused by the router's own
// revalidation requests are ignored.
func (r *Router) Invalidate(conn diagram.Connection) {
	if r.ignoring || conn == nil {
		return
	}
	r.stale.add(conn)
	r.dirty = true
}

// SetConstraint makes the route of conn pass through bends, in order. An
// empty list removes the constraint. The change is applied even while the
// router is revalidating.
func (r *Router) SetConstraint(conn diagram.Connection, bends []diagram.Bendpoint) {
	if conn == nil {
		return
	}
	if len(bends) == 0 {
		delete(r.constraints, conn)
	} else {
		r.constraints[conn] = append([]diagram.Bendpoint(nil), bends...)
	}
	r.stale.add(conn)
	r.dirty = true
}

// Constraint returns the bend points set for conn.
func (r *Router) Constraint(conn diagram.Connection) []diagram.Bendpoint {
	return r.constraints[conn]
}

// Remove forgets conn. Removing the last routed connection stops obstacle
// tracking. Unknown connections are ignored.
func (r *Router) Remove(conn diagram.Connection) {
	if conn == nil {
		return
	}
	r.stale.remove(conn)
	delete(r.constraints, conn)
	if r.store.remove(conn) == nil {
		return
	}
	if r.store.len() == 0 {
		r.deactivate()
		r.dirty = r.stale.len() > 0
		return
	}
	r.dirty = true
	r.requestRerouting()
}

// SetSpacing sets the clearance between routes and obstacle edges. Every
// route is recomputed on the next pass.
func (r *Router) SetSpacing(spacing int) {
	if spacing == r.maze.Spacing() {
		return
	}
	r.maze.SetSpacing(spacing)
	if r.store.len() == 0 {
		return
	}
	r.dirty = true
	r.requestRerouting()
}

// Spacing returns the clearance between routes and obstacle edges.
func (r *Router) Spacing() int {
	return r.maze.Spacing()
}

// HasMoreConnections reports whether any connection is routed.
func (r *Router) HasMoreConnections() bool {
	return r.store.len() > 0
}

// ContainsConnection reports whether conn has been routed and not removed.
func (r *Router) ContainsConnection(conn diagram.Connection) bool {
	_, ok := r.store.get(conn)
	return ok
}

// IsDirty reports whether the next Route call will solve.
func (r *Router) IsDirty() bool {
	return r.dirty
}

// IsStale reports whether conn waits for its inputs to be derived again.
func (r *Router) IsStale(conn diagram.Connection) bool {
	return r.stale.has(conn)
}

// Container returns the container the router is bound to.
func (r *Router) Container() diagram.Container {
	return r.container
}

// IgnoringInvalidations reports whether invalidations are currently dropped.
func (r *Router) IgnoringInvalidations() bool {
	return r.ignoring
}

// SetIgnoreInvalidations turns dropping of invalidations on or off.
func (r *Router) SetIgnoreInvalidations(ignore bool) {
	r.ignoring = ignore
}

// Active reports whether obstacle tracking is running.
func (r *Router) Active() bool {
	return r.session == sessionActive
}

// Obstacles returns the obstacle rectangles the maze router holds.
func (r *Router) Obstacles() []core.Rect {
	return r.maze.Obstacles()
}

// Zones describes the tracked obstacles.
func (r *Router) Zones() []obstacles.Zone {
	return r.registry.Zones()
}

// Stats returns counters describing the work done so far.
func (r *Router) Stats() Stats {
	return r.stats
}

// Close stops obstacle tracking and drops every connection.
func (r *Router) Close() {
	r.deactivate()
	r.store.clear()
	r.stale.drain()
	r.constraints = make(map[diagram.Connection][]diagram.Bendpoint)
	r.dirty = false
}

// guard drops invalidations until the returned func is called, which
// restores the previous setting.
func (r *Router) guard() func() {
	prev := r.ignoring
	r.ignoring = true
	return func() { r.ignoring = prev }
}

// requestRerouting asks the framework for a new Route call by revalidating
// the first routed connection. Its own invalidation is dropped.
func (r *Router) requestRerouting() {
	conn := r.store.first()
	if conn == nil {
		return
	}
	defer r.guard()()
	conn.Revalidate()
}

// activate starts tracking every child of the container.
func (r *Router) activate() {
	if r.session == sessionActive {
		return
	}
	r.session = sessionActive
	r.stats.Activations++
	for _, child := range r.container.Children() {
		r.registry.Register(child)
	}
	r.sub = r.container.AddContainerListener(r.tracker)
	r.logger.Debug("obstacle tracking started", "obstacles", r.registry.Len())
}

// deactivate stops tracking obstacles and container events.
func (r *Router) deactivate() {
	if r.session == sessionInactive {
		return
	}
	r.session = sessionInactive
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
	r.registry.UnregisterAll()
	r.logger.Debug("obstacle tracking stopped")
}
