// Package canvas renders surfaces and their routed links as character grids.
package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"mtroute/core"
	"mtroute/geometry"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrShortPath   = errors.New("path must have at least 2 points")
)

// BoxStyle holds the characters a box outline is drawn with.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	DefaultBoxStyle = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	ASCIIBoxStyle   = BoxStyle{'+', '+', '+', '+', '-', '|'}
)

// MatrixCanvas is a rune grid with line drawing primitives. Origin is the
// top-left cell; y grows downward.
//
// MatrixCanvas is not safe for concurrent writes.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = []rune(strings.Repeat(" ", width))
	}
	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *MatrixCanvas) inside(p core.Point) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at p, or a space outside the canvas.
func (c *MatrixCanvas) Get(p core.Point) rune {
	if !c.inside(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set merges char into the cell at p.
func (c *MatrixCanvas) Set(p core.Point, char rune) error {
	if !c.inside(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Put overwrites the cell at p. Cells outside the canvas are ignored.
func (c *MatrixCanvas) Put(p core.Point, char rune) {
	if c.inside(p) {
		c.matrix[p.Y][p.X] = char
	}
}

// Clear resets every cell to a space.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the rows joined by newlines, trailing spaces removed.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y, row := range c.matrix {
		line := make([]rune, 0, len(row))
		for _, r := range row {
			if r == 0 {
				continue // second cell of a wide character
			}
			line = append(line, r)
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// DrawBox draws the outline of r and blanks its interior. Cells outside
// the canvas are skipped.
func (c *MatrixCanvas) DrawBox(r core.Rect, style BoxStyle) error {
	if r.Width < 2 || r.Height < 2 {
		return ErrInvalidSize
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for y := r.Y; y <= bottom; y++ {
		for x := r.X; x <= right; x++ {
			char := ' '
			switch {
			case y == r.Y && x == r.X:
				char = style.TopLeft
			case y == r.Y && x == right:
				char = style.TopRight
			case y == bottom && x == r.X:
				char = style.BottomLeft
			case y == bottom && x == right:
				char = style.BottomRight
			case y == r.Y || y == bottom:
				char = style.Horizontal
			case x == r.X || x == right:
				char = style.Vertical
			}
			c.Put(core.Point{X: x, Y: y}, char)
		}
	}
	return nil
}

// DrawPolyline draws an orthogonal polyline, merging with lines already on
// the canvas and rounding its own corners.
func (c *MatrixCanvas) DrawPolyline(points core.PointList, ascii bool) error {
	if len(points) < 2 {
		return ErrShortPath
	}
	horizontal, vertical := '─', '│'
	if ascii {
		horizontal, vertical = '-', '|'
	}
	last := len(points) - 2

	for i := 0; i <= last; i++ {
		a, b := points[i], points[i+1]
		if a.X != b.X && a.Y != b.Y {
			c.Set(a, '*')
			c.Set(b, '*')
			continue
		}
		char := vertical
		if a.Y == b.Y {
			char = horizontal
		}
		dx, dy := geometry.Sign(b.X-a.X), geometry.Sign(b.Y-a.Y)
		for p := a; ; p = p.Translate(dx, dy) {
			// joints between segments get a corner below
			joint := (p == a && i > 0) || (p == b && i < last)
			if !joint {
				c.Set(p, char)
			}
			if p == b {
				break
			}
		}
	}

	for i := 1; i <= last; i++ {
		c.Set(points[i], selectCorner(points[i-1], points[i], points[i+1], ascii))
	}
	return nil
}

// DrawText writes text starting at x, y. Wide characters take two cells.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			break
		}
		if x >= 0 {
			c.matrix[y][x] = r
			if w == 2 {
				c.matrix[y][x+1] = 0
			}
		}
		x += w
	}
	return nil
}

// selectCorner picks the corner joining the segment prev-curr with
// curr-next.
func selectCorner(prev, curr, next core.Point, ascii bool) rune {
	if ascii {
		return '+'
	}
	in, out := direction(prev, curr), direction(curr, next)
	switch {
	case in == 'E' && out == 'S', in == 'N' && out == 'W':
		return '╮'
	case in == 'E' && out == 'N', in == 'S' && out == 'W':
		return '╯'
	case in == 'W' && out == 'S', in == 'N' && out == 'E':
		return '╭'
	case in == 'W' && out == 'N', in == 'S' && out == 'E':
		return '╰'
	case in == 'E' || in == 'W':
		return '─'
	default:
		return '│'
	}
}

func direction(from, to core.Point) rune {
	switch {
	case to.X > from.X:
		return 'E'
	case to.X < from.X:
		return 'W'
	case to.Y > from.Y:
		return 'S'
	default:
		return 'N'
	}
}
