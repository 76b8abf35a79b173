package canvas

// dirs is the set of directions a line character reaches out to.
type dirs uint8

const (
	dirN dirs = 1 << iota
	dirE
	dirS
	dirW
)

var runeDirs = map[rune]dirs{
	'─': dirE | dirW,
	'│': dirN | dirS,
	'┌': dirE | dirS,
	'╭': dirE | dirS,
	'┐': dirW | dirS,
	'╮': dirW | dirS,
	'└': dirN | dirE,
	'╰': dirN | dirE,
	'┘': dirN | dirW,
	'╯': dirN | dirW,
	'├': dirN | dirS | dirE,
	'┤': dirN | dirS | dirW,
	'┬': dirE | dirW | dirS,
	'┴': dirE | dirW | dirN,
	'┼': dirN | dirE | dirS | dirW,
}

var asciiDirs = map[rune]dirs{
	'-': dirE | dirW,
	'|': dirN | dirS,
	'+': dirN | dirE | dirS | dirW,
}

var junctions = map[dirs]rune{
	dirE | dirW:               '─',
	dirN | dirS:               '│',
	dirE | dirS:               '┌',
	dirW | dirS:               '┐',
	dirN | dirE:               '└',
	dirN | dirW:               '┘',
	dirN | dirS | dirE:        '├',
	dirN | dirS | dirW:        '┤',
	dirE | dirW | dirS:        '┬',
	dirE | dirW | dirN:        '┴',
	dirN | dirE | dirS | dirW: '┼',
}

// CharacterMerger combines two line characters drawn onto the same cell into
// the junction reaching every direction either of them reaches.
type CharacterMerger struct{}

// NewCharacterMerger creates a merger.
func NewCharacterMerger() *CharacterMerger {
	return &CharacterMerger{}
}

// Merge returns the character for a cell holding existing when next is
// drawn over it. Arrows are never replaced; unknown characters are kept.
func (m *CharacterMerger) Merge(existing, next rune) rune {
	if existing == ' ' || existing == 0 {
		return next
	}
	if existing == next || isArrow(existing) {
		return existing
	}
	if isArrow(next) {
		return next
	}

	if a, ok := asciiDirs[existing]; ok {
		if b, ok := asciiDirs[next]; ok {
			if a|b == b {
				return next
			}
			return '+'
		}
		return existing
	}

	a, ok := runeDirs[existing]
	if !ok {
		return existing
	}
	b, ok := runeDirs[next]
	if !ok {
		return existing
	}
	switch a | b {
	case a:
		return existing
	case b:
		return next
	default:
		return junctions[a|b]
	}
}

func isArrow(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼', '>', '<', '^', 'v':
		return true
	}
	return false
}
