package canvas

import (
	"fmt"

	"mtroute/core"
)

// ArrowType represents where arrow heads are drawn on a link.
type ArrowType int

const (
	// ArrowEnd draws an arrow where the link enters its target.
	ArrowEnd ArrowType = iota
	// ArrowNone draws no arrow.
	ArrowNone
	// ArrowStart draws an arrow where the link leaves its source.
	ArrowStart
	// ArrowBoth draws arrows at both ends.
	ArrowBoth
)

// ParseArrowType parses "end", "none", "start" or "both". The empty string
// selects ArrowEnd.
func ParseArrowType(s string) (ArrowType, error) {
	switch s {
	case "", "end":
		return ArrowEnd, nil
	case "none":
		return ArrowNone, nil
	case "start":
		return ArrowStart, nil
	case "both":
		return ArrowBoth, nil
	default:
		return ArrowNone, fmt.Errorf("unknown arrow type %q", s)
	}
}

func (a ArrowType) String() string {
	switch a {
	case ArrowEnd:
		return "end"
	case ArrowNone:
		return "none"
	case ArrowStart:
		return "start"
	case ArrowBoth:
		return "both"
	default:
		return "unknown"
	}
}

func (a ArrowType) atEnd() bool {
	return a == ArrowEnd || a == ArrowBoth
}

func (a ArrowType) atStart() bool {
	return a == ArrowStart || a == ArrowBoth
}

// arrowHead returns the arrow pointing in the direction of travel from
// from to to.
func arrowHead(from, to core.Point, ascii bool) rune {
	heads := [4]rune{'▶', '◀', '▼', '▲'}
	if ascii {
		heads = [4]rune{'>', '<', 'v', '^'}
	}
	switch {
	case to.X > from.X:
		return heads[0]
	case to.X < from.X:
		return heads[1]
	case to.Y > from.Y:
		return heads[2]
	default:
		return heads[3]
	}
}
