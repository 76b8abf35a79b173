// Package markdown finds scene blocks in markdown documents and keeps a
// rendered copy of each right below it.
package markdown

import (
	"fmt"
	"strings"
)

const (
	// SceneLang tags fenced blocks holding a scene.
	SceneLang = "mtroute"
	// OutputLang tags the fenced block holding a scene's rendering.
	OutputLang = "text"
)

// Block is a fenced code block. Line numbers are 0-based and point at the
// fences.
type Block struct {
	Lang      string
	Content   string
	StartLine int
	EndLine   int
	Indent    string
}

// Scanner finds fenced blocks in markdown content.
type Scanner struct {
	lines []string
}

func NewScanner(content string) *Scanner {
	return &Scanner{lines: strings.Split(content, "\n")}
}

// Content returns the current markdown content.
func (s *Scanner) Content() string {
	return strings.Join(s.lines, "\n")
}

// SceneBlocks returns the scene blocks in document order.
func (s *Scanner) SceneBlocks() []Block {
	var out []Block
	for _, b := range s.blocks() {
		if b.Lang == SceneLang {
			out = append(out, b)
		}
	}
	return out
}

func (s *Scanner) blocks() []Block {
	var blocks []Block
	var current *Block
	var content []string
	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if strings.HasPrefix(trimmed, "```") {
				current = &Block{
					Lang:      strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))),
					StartLine: i,
					Indent:    line[:len(line)-len(trimmed)],
				}
				content = content[:0]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(content, "\n")
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		content = append(content, strings.TrimPrefix(line, current.Indent))
	}
	return blocks
}

// RenderScenes calls render for every scene block and writes the result
// into the output block following it, adding one where there is none. It
// returns the number of blocks rendered.
func (s *Scanner) RenderScenes(render func(Block) (string, error)) (int, error) {
	scenes := s.SceneBlocks()
	// Work bottom up so earlier line numbers stay valid.
	for i := len(scenes) - 1; i >= 0; i-- {
		b := scenes[i]
		out, err := render(b)
		if err != nil {
			return 0, fmt.Errorf("scene block at line %d: %w", b.StartLine+1, err)
		}
		s.writeOutput(b, out)
	}
	return len(scenes), nil
}

func (s *Scanner) writeOutput(scene Block, rendered string) {
	fenced := []string{scene.Indent + "```" + OutputLang}
	for _, line := range strings.Split(rendered, "\n") {
		fenced = append(fenced, scene.Indent+line)
	}
	fenced = append(fenced, scene.Indent+"```")

	if out, ok := s.outputAfter(scene); ok {
		s.splice(out.StartLine, out.EndLine+1, fenced)
		return
	}
	s.splice(scene.EndLine+1, scene.EndLine+1, append([]string{""}, fenced...))
}

// outputAfter returns the output block following scene, separated from it
// by blank lines only.
func (s *Scanner) outputAfter(scene Block) (Block, bool) {
	next := scene.EndLine + 1
	for next < len(s.lines) && strings.TrimSpace(s.lines[next]) == "" {
		next++
	}
	for _, b := range s.blocks() {
		if b.StartLine == next && b.Lang == OutputLang {
			return b, true
		}
	}
	return Block{}, false
}

// splice replaces lines [from, to) with repl.
func (s *Scanner) splice(from, to int, repl []string) {
	lines := make([]string, 0, len(s.lines)-(to-from)+len(repl))
	lines = append(lines, s.lines[:from]...)
	lines = append(lines, repl...)
	lines = append(lines, s.lines[to:]...)
	s.lines = lines
}

// FormatBlockInfo returns a one-line description of a block.
func FormatBlockInfo(b Block, index int) string {
	preview := ""
	for _, line := range strings.Split(b.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			preview = trimmed
			break
		}
	}
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, b.Lang, b.StartLine+1, preview)
}
