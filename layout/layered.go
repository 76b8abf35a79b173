// Package layout places nodes that have no position of their own.
package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Box is a node to be placed. Fixed boxes keep their position and are only
// used to find free space.
type Box struct {
	Name          string
	Label         string
	X, Y          int
	Width, Height int
	Fixed         bool
}

// Edge is a connection between two boxes, by name.
type Edge struct {
	From, To string
}

// LayeredLayout arranges boxes left to right in columns by their distance
// from the boxes nothing points to.
type LayeredLayout struct {
	HorizontalSpacing int
	VerticalSpacing   int
	MinWidth          int
	MinHeight         int
	MaxWidth          int
}

// NewLayeredLayout creates a layout with default settings.
func NewLayeredLayout() *LayeredLayout {
	return &LayeredLayout{
		HorizontalSpacing: 8,
		VerticalSpacing:   2,
		MinWidth:          3,
		MinHeight:         3,
		MaxWidth:          50,
	}
}

// Size returns the box size fitting label: one row per line plus borders,
// and two columns of padding on each side of the widest line.
func (l *LayeredLayout) Size(label string) (width, height int) {
	lines := strings.Split(label, "\n")
	widest := 0
	for _, line := range lines {
		widest = max(widest, runewidth.StringWidth(line))
	}
	width = min(max(widest+4, l.MinWidth), l.MaxWidth)
	height = max(len(lines)+2, l.MinHeight)
	return width, height
}

// Layout returns boxes with every unfixed box placed. The input is not
// modified.
func (l *LayeredLayout) Layout(boxes []Box, edges []Edge) ([]Box, error) {
	result := make([]Box, len(boxes))
	copy(result, boxes)

	index := make(map[string]int, len(result))
	for i, b := range result {
		index[b.Name] = i
	}
	outgoing := make([][]int, len(result))
	for _, e := range edges {
		from, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("invalid connection: node %q not found", e.From)
		}
		to, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("invalid connection: node %q not found", e.To)
		}
		if from != to {
			outgoing[from] = append(outgoing[from], to)
		}
	}

	xOffset, free := 0, false
	for _, b := range result {
		if b.Fixed {
			xOffset = max(xOffset, b.X+b.Width+l.HorizontalSpacing)
		} else {
			free = true
		}
	}
	if !free {
		return result, nil
	}

	layers := assignLayers(len(result), dropBackEdges(outgoing))
	l.position(result, layers, xOffset)
	return result, nil
}

// dropBackEdges removes the edges closing a cycle, found by depth-first
// search in declaration order.
func dropBackEdges(outgoing [][]int) [][]int {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]int, len(outgoing))
	acyclic := make([][]int, len(outgoing))

	var dfs func(n int)
	dfs = func(n int) {
		state[n] = visiting
		for _, next := range outgoing[n] {
			switch state[next] {
			case visiting:
				continue
			case unvisited:
				dfs(next)
			}
			acyclic[n] = append(acyclic[n], next)
		}
		state[n] = visited
	}
	for n := range outgoing {
		if state[n] == unvisited {
			dfs(n)
		}
	}
	return acyclic
}

// assignLayers puts every box into the layer after its furthest predecessor.
func assignLayers(n int, outgoing [][]int) [][]int {
	inDegree := make([]int, n)
	for _, succ := range outgoing {
		for _, s := range succ {
			inDegree[s]++
		}
	}
	var queue []int
	for i := range n {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var layers [][]int
	for len(queue) > 0 {
		layers = append(layers, queue)
		var next []int
		for _, i := range queue {
			for _, s := range outgoing[i] {
				inDegree[s]--
				if inDegree[s] == 0 {
					next = append(next, s)
				}
			}
		}
		queue = next
	}
	return layers
}

// position places the unfixed boxes layer by layer, each layer a column
// centered on the tallest one.
func (l *LayeredLayout) position(boxes []Box, layers [][]int, xOffset int) {
	x := xOffset
	heights := make([]int, len(layers))
	tallest := 0
	for li, layer := range layers {
		y, width := 0, 0
		for _, i := range layer {
			b := &boxes[i]
			if b.Fixed {
				continue
			}
			b.X, b.Y = x, y
			y += b.Height + l.VerticalSpacing
			width = max(width, b.Width)
		}
		if width == 0 {
			continue
		}
		heights[li] = y - l.VerticalSpacing
		tallest = max(tallest, heights[li])
		x += width + l.HorizontalSpacing
	}

	for li, layer := range layers {
		offset := (tallest - heights[li]) / 2
		for _, i := range layer {
			if !boxes[i].Fixed {
				boxes[i].Y += offset
			}
		}
	}
}
