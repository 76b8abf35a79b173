package obstacles

import (
	"fmt"
	"strings"

	"mtroute/core"
)

// Zone is one tracked obstacle as the maze router sees it: the figure's
// bounds and the clearance routes keep around them.
type Zone struct {
	Name    string
	Bounds  core.Rect
	Spacing int
}

// Blocked returns the rectangle whose open interior routes may not enter.
func (z Zone) Blocked() core.Rect {
	return z.Bounds.Expand(z.Spacing)
}

// Zones returns the tracked obstacles in registration order.
func (r *Registry) Zones() []Zone {
	zones := make([]Zone, 0, len(r.order))
	for _, fig := range r.order {
		zones = append(zones, Zone{
			Name:    fmt.Sprint(fig),
			Bounds:  r.entries[fig].bounds,
			Spacing: r.maze.Spacing(),
		})
	}
	return zones
}

// DebugVisualizer renders obstacle zones as text.
type DebugVisualizer struct {
	ShowClearance bool
}

// VisualizeObstacles draws zones inside bounds, one character per unit.
func (dv *DebugVisualizer) VisualizeObstacles(bounds core.Rect, zones []Zone) string {
	if bounds.IsEmpty() {
		return ""
	}
	grid := make([][]rune, bounds.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", bounds.Width))
	}

	fill := func(r core.Rect, char rune) {
		for y := max(r.Y, bounds.Y); y < min(r.Bottom(), bounds.Bottom()); y++ {
			for x := max(r.X, bounds.X); x < min(r.Right(), bounds.Right()); x++ {
				grid[y-bounds.Y][x-bounds.X] = char
			}
		}
	}

	if dv.ShowClearance {
		for _, z := range zones {
			fill(z.Blocked(), '░')
		}
	}
	for _, z := range zones {
		fill(z.Bounds, '█')
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(strings.TrimRight(string(row), " "))
		result.WriteString("\n")
	}
	return result.String()
}

// Legend explains the symbols used by VisualizeObstacles.
func (dv *DebugVisualizer) Legend() string {
	legend := []string{
		"Obstacle Visualization Legend:",
		"  █ - Figure bounds",
	}
	if dv.ShowClearance {
		legend = append(legend, "  ░ - Clearance kept by routes")
	}
	return strings.Join(legend, "\n")
}

// ExportObstacleData lists zones one per line for external tools.
func ExportObstacleData(zones []Zone) string {
	var result strings.Builder
	result.WriteString("# Obstacle Zones\n")
	for i, z := range zones {
		b := z.Blocked()
		fmt.Fprintf(&result, "Zone %d: name=%s, bounds=(%d,%d)-(%d,%d), blocked=(%d,%d)-(%d,%d)\n",
			i, z.Name, z.Bounds.X, z.Bounds.Y, z.Bounds.Right(), z.Bounds.Bottom(),
			b.X, b.Y, b.Right(), b.Bottom())
	}
	return result.String()
}
