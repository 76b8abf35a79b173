// Package obstacles tracks the figures connections are routed around and
// mirrors their bounds into the maze router's obstacle set.
package obstacles

import (
	"mtroute/core"
	"mtroute/diagram"
	"mtroute/pathfinding"
)

// Invalidator is notified when an obstacle change affects routing.
type Invalidator interface {
	// MarkDirty records that routing inputs changed since the last solve.
	MarkDirty()

	// RequestRerouting asks the owner to schedule a new routing pass.
	RequestRerouting()
}

type entry struct {
	bounds core.Rect
	sub    diagram.Subscription
}

// Registry keeps one bounds snapshot per tracked figure. Snapshots are the
// rectangles last handed to the maze router, so later changes can be reported
// as deltas.
type Registry struct {
	maze    *pathfinding.MazeRouter
	owner   Invalidator
	entries map[diagram.Figure]*entry
	order   []diagram.Figure
}

// NewRegistry creates an empty registry feeding maze and reporting to owner.
func NewRegistry(maze *pathfinding.MazeRouter, owner Invalidator) *Registry {
	return &Registry{
		maze:    maze,
		owner:   owner,
		entries: make(map[diagram.Figure]*entry),
	}
}

// Register starts tracking fig. Figures already tracked are left alone.
func (r *Registry) Register(fig diagram.Figure) {
	if fig == nil {
		return
	}
	if _, ok := r.entries[fig]; ok {
		return
	}
	e := &entry{bounds: fig.Bounds()}
	r.entries[fig] = e
	r.order = append(r.order, fig)
	r.maze.AddObstacle(e.bounds)
	e.sub = fig.AddBoundsListener(r.BoundsChanged)
	r.owner.MarkDirty()
}

// Unregister stops tracking fig. If its removal affects a route, the owner is
// asked to reroute.
func (r *Registry) Unregister(fig diagram.Figure) {
	e, ok := r.entries[fig]
	if !ok {
		return
	}
	r.drop(fig, e)
	if r.maze.RemoveObstacle(e.bounds) {
		r.owner.MarkDirty()
		r.owner.RequestRerouting()
	}
}

// BoundsChanged records the current bounds of fig. The snapshot is replaced
// even when the move does not matter to any route.
func (r *Registry) BoundsChanged(fig diagram.Figure) {
	e, ok := r.entries[fig]
	if !ok {
		return
	}
	next := fig.Bounds()
	prev := e.bounds
	e.bounds = next
	if r.maze.UpdateObstacle(prev, next) {
		r.owner.MarkDirty()
		r.owner.RequestRerouting()
	}
}

// UnregisterAll stops tracking every figure without requesting rerouting.
func (r *Registry) UnregisterAll() {
	for _, fig := range r.Figures() {
		e := r.entries[fig]
		r.drop(fig, e)
		r.maze.RemoveObstacle(e.bounds)
	}
}

// Tracked reports whether fig is currently tracked.
func (r *Registry) Tracked(fig diagram.Figure) bool {
	_, ok := r.entries[fig]
	return ok
}

// Len returns the number of tracked figures.
func (r *Registry) Len() int {
	return len(r.order)
}

// Bounds returns the snapshot held for fig.
func (r *Registry) Bounds(fig diagram.Figure) (core.Rect, bool) {
	e, ok := r.entries[fig]
	if !ok {
		return core.Rect{}, false
	}
	return e.bounds, true
}

// Figures returns the tracked figures in registration order.
func (r *Registry) Figures() []diagram.Figure {
	out := make([]diagram.Figure, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) drop(fig diagram.Figure, e *entry) {
	if e.sub != nil {
		e.sub.Unsubscribe()
	}
	delete(r.entries, fig)
	for i, f := range r.order {
		if f == fig {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
