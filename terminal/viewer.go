// Package terminal shows a routed scene in the terminal and lets the user
// move nodes around while the links are rerouted.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mtroute/core"
	"mtroute/ctxlog"
	"mtroute/diagram"
	"mtroute/scene"
)

const help = "tab: next node  arrows: move  +/-: spacing  q: quit"

// Viewer draws a scene onto a tcell screen and handles key presses.
type Viewer struct {
	screen   tcell.Screen
	scene    *scene.Scene
	selected int
	origin   core.Point
	status   string
}

// NewViewer creates a viewer for sc. The screen must already be initialized.
func NewViewer(screen tcell.Screen, sc *scene.Scene) *Viewer {
	return &Viewer{screen: screen, scene: sc}
}

// Open creates and initializes a terminal screen. Callers must call Fini on it.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return screen, nil
}

// Run draws the scene and handles events until the user quits or ctx is
// done.
func (v *Viewer) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	v.scene.Route()
	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			v.screen.Sync()
			v.Draw()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				logger.Debug("viewer closed", "solves", v.scene.Router.Stats().Solves)
				return nil
			}
			v.Draw()
		}
	}
}

// Selected returns the node keyboard moves apply to, or nil on an empty
// scene.
func (v *Viewer) Selected() *diagram.Node {
	nodes := v.scene.Surface.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[v.selected%len(nodes)]
}

// HandleKey applies a key press and reroutes. It reports whether the viewer
// should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	dx, dy := 0, 0
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		v.selected++
	case tcell.KeyBacktab:
		if n := len(v.scene.Surface.Nodes()); n > 0 {
			v.selected = (v.selected + n - 1) % n
		}
	case tcell.KeyLeft:
		dx = -1
	case tcell.KeyRight:
		dx = 1
	case tcell.KeyUp:
		dy = -1
	case tcell.KeyDown:
		dy = 1
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '+':
			v.scene.Router.SetSpacing(v.scene.Router.Spacing() + 1)
		case '-':
			if s := v.scene.Router.Spacing(); s > 0 {
				v.scene.Router.SetSpacing(s - 1)
			}
		}
	}

	if n := v.Selected(); n != nil && (dx != 0 || dy != 0) {
		v.scene.Surface.Move(n, dx, dy)
	}
	v.scene.Route()
	return false
}

// Draw renders the scene, highlights the selected node and writes the status
// line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	r := v.scene.Renderer()
	frame := r.Frame(v.scene.Surface)
	v.origin = core.Point{X: frame.X, Y: frame.Y}
	out, err := r.Render(v.scene.Surface)
	if err != nil {
		v.status = err.Error()
	}

	rows := strings.Split(out, "\n")
	for y := 0; y < len(rows) && y < height-1; y++ {
		drawString(v.screen, 0, y, rows[y], tcell.StyleDefault)
	}

	if n := v.Selected(); n != nil {
		v.highlight(n.Bounds(), width, height-1)
	}

	status := v.status
	if status == "" {
		stats := v.scene.Router.Stats()
		name := "-"
		if n := v.Selected(); n != nil {
			name = n.Name()
		}
		status = fmt.Sprintf("node: %s  spacing: %d  solves: %d  failed: %d  %s",
			name, v.scene.Router.Spacing(), stats.Solves, stats.Failed, help)
	}
	drawString(v.screen, 0, height-1, status, tcell.StyleDefault.Reverse(true))
	v.status = ""
	v.screen.Show()
}

// highlight redraws the outline of bounds in bold.
func (v *Viewer) highlight(bounds core.Rect, width, height int) {
	box := bounds.Translate(-v.origin.X, -v.origin.Y)
	style := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow)
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			edge := y == box.Y || y == box.Bottom()-1 || x == box.X || x == box.Right()-1
			if !edge || x < 0 || y < 0 || x >= width || y >= height {
				continue
			}
			mainc, combc, _, _ := v.screen.GetContent(x, y)
			v.screen.SetContent(x, y, mainc, combc, style)
		}
	}
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}
