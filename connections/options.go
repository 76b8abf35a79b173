package connections

import (
	"log/slog"

	"mtroute/core"
	"mtroute/diagram"
)

// EndpointResolver returns the point a route starts or ends at for an anchor.
type EndpointResolver func(a diagram.Anchor) core.Point

// CenterEndpoint routes from the center of the anchor's owner, or from its
// reference point when the anchor has no owner.
func CenterEndpoint(a diagram.Anchor) core.Point {
	if owner := a.Owner(); owner != nil {
		return owner.Bounds().Center()
	}
	return a.ReferencePoint()
}

// Option configures a Router.
type Option func(*Router)

// WithSpacing sets the clearance kept between routes and obstacles.
func WithSpacing(spacing int) Option {
	return func(r *Router) {
		r.maze.SetSpacing(spacing)
	}
}

// WithLogger sets the logger solve passes and session changes are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEndpointResolver replaces the rule deriving route endpoints from anchors.
func WithEndpointResolver(fn EndpointResolver) Option {
	return func(r *Router) {
		if fn != nil {
			r.resolve = fn
		}
	}
}

// WithMaxSearchLevels limits how many line generations the maze search grows.
func WithMaxSearchLevels(levels int) Option {
	return func(r *Router) {
		r.maze.SetMaxLevels(levels)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
