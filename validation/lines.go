// Package validation checks rendered diagrams and routed links for drawing
// and routing mistakes.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type side uint8

const (
	north side = 1 << iota
	east
	south
	west
)

var sides = [...]struct {
	side   side
	name   string
	dx, dy int
}{
	{north, "north", 0, -1},
	{east, "east", 1, 0},
	{south, "south", 0, 1},
	{west, "west", -1, 0},
}

func (s side) opposite() side {
	switch s {
	case north:
		return south
	case south:
		return north
	case east:
		return west
	default:
		return east
	}
}

// reach lists the sides each line character connects to.
var reach = map[rune]side{
	'─': east | west, '━': east | west,
	'│': north | south, '┃': north | south,
	'┌': east | south, '╭': east | south,
	'┐': west | south, '╮': west | south,
	'└': north | east, '╰': north | east,
	'┘': north | west, '╯': north | west,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | west | south,
	'┴': east | west | north,
	'┼': north | east | south | west,
}

var asciiReach = map[rune]side{
	'-': east | west,
	'|': north | south,
}

// arrows maps each arrow head to the side its line comes in from.
var arrows = map[rune]side{
	'▶': west, '>': west,
	'◀': east, '<': east,
	'▼': north,
	'▲': south, '^': south,
}

// LineValidator validates that rendered diagrams follow line drawing rules:
// every line reaching out to a neighbouring cell must be met by a character
// reaching back.
type LineValidator struct {
	errors     []ValidationError
	allowASCII bool
	strictMode bool
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}

func NewLineValidator() *LineValidator {
	return &LineValidator{allowASCII: true}
}

// SetStrictMode makes lines touching side-on without a junction an error.
func (v *LineValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// SetAllowASCII controls whether -, | and + count as line characters.
func (v *LineValidator) SetAllowASCII(allow bool) {
	v.allowASCII = allow
}

// Validate checks a rendered diagram. Columns are display columns, so a wide
// character occupies two.
func (v *LineValidator) Validate(diagram string) []ValidationError {
	v.errors = nil
	grid := toGrid(diagram)
	for y, row := range grid {
		for x, char := range row {
			switch {
			case char == ' ' || char == 0 || isText(char):
			case v.isWildcard(char):
			case isArrowHead(char):
				v.checkArrow(grid, x, y, char)
			default:
				if _, ok := v.reachOf(char); ok {
					v.checkLine(grid, x, y, char)
				}
			}
		}
	}
	return v.errors
}

func toGrid(diagram string) [][]rune {
	lines := strings.Split(strings.TrimRight(diagram, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		row := make([]rune, 0, len(line))
		for _, r := range line {
			row = append(row, r)
			if runewidth.RuneWidth(r) == 2 {
				row = append(row, 0)
			}
		}
		grid[i] = row
	}
	return grid
}

func (v *LineValidator) checkLine(grid [][]rune, x, y int, char rune) {
	own, _ := v.reachOf(char)
	straight := own == east|west || own == north|south

	for _, s := range sides {
		n := at(grid, x+s.dx, y+s.dy)
		ctx := fmt.Sprintf("%s=%c", s.name, n)
		back, isLine := v.reachOf(n)

		if own&s.side == 0 {
			if v.strictMode && isLine && back&s.side.opposite() != 0 {
				v.addError(x, y, char, ctx, "unexpected %c on the %s", n, s.name)
			}
			continue
		}

		switch {
		case v.isWildcard(n):
		case isArrowHead(n):
			if arrows[n] != s.side.opposite() && arrows[n] != s.side {
				v.addError(x, y, char, ctx, "line cannot lead into %c on the %s", n, s.name)
			}
		case isLine:
			if back&s.side.opposite() != 0 {
				continue
			}
			touching := straight && (back == east|west || back == north|south)
			if touching && !v.strictMode {
				continue
			}
			v.addError(x, y, char, ctx, "line cannot connect to %c on the %s", n, s.name)
		default:
			if !straight {
				v.addError(x, y, char, ctx, "open end on the %s", s.name)
			}
		}
	}
}

func (v *LineValidator) checkArrow(grid [][]rune, x, y int, char rune) {
	from := arrows[char]
	for _, s := range sides {
		if s.side != from {
			continue
		}
		n := at(grid, x+s.dx, y+s.dy)
		if v.isWildcard(n) {
			return
		}
		if back, ok := v.reachOf(n); ok && back&s.side.opposite() != 0 {
			return
		}
		v.addError(x, y, char, fmt.Sprintf("%s=%c", s.name, n), "arrow has no line on the %s", s.name)
	}
}

func (v *LineValidator) reachOf(r rune) (side, bool) {
	if s, ok := reach[r]; ok {
		return s, true
	}
	if v.allowASCII {
		s, ok := asciiReach[r]
		return s, ok
	}
	return 0, false
}

// isWildcard reports whether r is the ASCII '+', which stands for any
// corner or junction.
func (v *LineValidator) isWildcard(r rune) bool {
	return v.allowASCII && r == '+'
}

func isArrowHead(r rune) bool {
	_, ok := arrows[r]
	return ok
}

// isText reports whether r belongs to a label. A lowercase v is text, never
// an arrow.
func isText(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func at(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}

func (v *LineValidator) addError(x, y int, char rune, context, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}
