package diagram

import (
	"mtroute/core"
)

// Node is a labelled box on a Surface.
type Node struct {
	name      string
	label     string
	bounds    core.Rect
	listeners listenerList[func(Figure)]
}

// NewNode creates a node. An empty label falls back to the name.
func NewNode(name string, bounds core.Rect, label string) *Node {
	if label == "" {
		label = name
	}
	return &Node{name: name, label: label, bounds: bounds}
}

// Name returns the identifier the node was created with.
func (n *Node) Name() string {
	return n.name
}

// Label returns the text drawn inside the node.
func (n *Node) Label() string {
	return n.label
}

// Bounds returns the node's rectangle.
func (n *Node) Bounds() core.Rect {
	return n.bounds
}

// SetBounds moves or resizes the node and notifies bounds listeners.
func (n *Node) SetBounds(r core.Rect) {
	if r == n.bounds {
		return
	}
	n.bounds = r
	for _, fn := range n.listeners.snapshot() {
		fn(n)
	}
}

// AddBoundsListener registers fn for bounds changes.
func (n *Node) AddBoundsListener(fn func(Figure)) Subscription {
	return n.listeners.add(fn)
}

// BoundsListeners returns the number of registered bounds listeners.
func (n *Node) BoundsListeners() int {
	return n.listeners.len()
}

func (n *Node) String() string {
	return n.name
}
