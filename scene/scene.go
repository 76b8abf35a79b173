// Package scene loads surfaces described in HCL scene files and attaches a
// connection router to them.
//
// A scene file looks like this:
//
//	router { spacing = 2 }
//	canvas { width = 80  height = 24 }
//	node "a" { x = 2  y = 2  width = 9  height = 3  label = "A" }
//	node "b" { x = canvas.width - 12  y = 2  width = 9  height = 3 }
//	node "c" { label = "placed for you" }
//	connection "a_b" {
//	  from  = "a"
//	  to    = "b"
//	  bends = [[20, 12]]
//	  arrow = "both"
//	}
//
// Attributes outside the canvas block may refer to canvas.width and
// canvas.height. Nodes without x and y are laid out in columns to the right
// of the positioned ones; nodes without a size are fitted to their label.
package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"mtroute/canvas"
	"mtroute/connections"
	"mtroute/core"
	"mtroute/ctxlog"
	"mtroute/diagram"
	"mtroute/layout"
)

// ErrBadBend is returned for a bend that is not an [x, y] pair.
var ErrBadBend = errors.New("bend must be an [x, y] pair")

// Scene is a routed surface built from a scene file.
type Scene struct {
	Surface *diagram.Surface
	Router  *connections.Router
	// Arrows holds the arrow type of every connection that sets one.
	Arrows map[string]canvas.ArrowType
}

// Route routes every pending link and returns the number of route requests.
func (s *Scene) Route() int {
	return s.Surface.Validate()
}

// Renderer returns a renderer set up with the scene's arrow types.
func (s *Scene) Renderer() *canvas.Renderer {
	r := canvas.NewRenderer()
	for name, a := range s.Arrows {
		r.SetArrowType(name, a)
	}
	return r
}

// hclHeader is decoded first, without variables, so the canvas size is known
// before anything refers to it.
type hclHeader struct {
	Canvas *hclCanvas `hcl:"canvas,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type hclCanvas struct {
	Width  int `hcl:"width"`
	Height int `hcl:"height"`
}

type hclBody struct {
	Router      *hclRouter       `hcl:"router,block"`
	Layout      *hclLayout       `hcl:"layout,block"`
	Nodes       []*hclNode       `hcl:"node,block"`
	Connections []*hclConnection `hcl:"connection,block"`
}

type hclRouter struct {
	Spacing   *int `hcl:"spacing,optional"`
	MaxLevels *int `hcl:"max_levels,optional"`
}

type hclLayout struct {
	HorizontalSpacing *int `hcl:"horizontal_spacing,optional"`
	VerticalSpacing   *int `hcl:"vertical_spacing,optional"`
}

// hclNode leaves out x and y to be placed automatically, and width and
// height to be sized to its label.
type hclNode struct {
	Name   string `hcl:"name,label"`
	X      *int   `hcl:"x,optional"`
	Y      *int   `hcl:"y,optional"`
	Width  *int   `hcl:"width,optional"`
	Height *int   `hcl:"height,optional"`
	Label  string `hcl:"label,optional"`
}

type hclConnection struct {
	Name  string  `hcl:"name,label"`
	From  string  `hcl:"from"`
	To    string  `hcl:"to"`
	Bends [][]int `hcl:"bends,optional"`
	Arrow string  `hcl:"arrow,optional"`
}

// Load parses the scene file at path.
func Load(ctx context.Context, path string) (*Scene, error) {
	ctxlog.FromContext(ctx).Debug("Loading scene", "path", path)
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, diags)
	}
	return build(ctx, path, file.Body)
}

// Parse parses a scene from src. filename is only used in error messages.
func Parse(ctx context.Context, filename string, src []byte) (*Scene, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scene %s: %w", filename, diags)
	}
	return build(ctx, filename, file.Body)
}

func build(ctx context.Context, filename string, body hcl.Body) (*Scene, error) {
	logger := ctxlog.FromContext(ctx)

	var header hclHeader
	if diags := gohcl.DecodeBody(body, nil, &header); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scene %s: %w", filename, diags)
	}
	var area core.Rect
	if header.Canvas != nil {
		area = core.Rect{Width: header.Canvas.Width, Height: header.Canvas.Height}
	}

	var parsed hclBody
	if diags := gohcl.DecodeBody(header.Remain, evalContext(area), &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scene %s: %w", filename, diags)
	}

	opts := []connections.Option{connections.WithLogger(logger)}
	if r := parsed.Router; r != nil {
		if r.Spacing != nil {
			opts = append(opts, connections.WithSpacing(*r.Spacing))
		}
		if r.MaxLevels != nil {
			opts = append(opts, connections.WithMaxSearchLevels(*r.MaxLevels))
		}
	}

	surface := diagram.NewSurface(area)
	router := connections.NewRouter(surface, opts...)
	surface.SetRouter(router)
	sc := &Scene{
		Surface: surface,
		Router:  router,
		Arrows:  make(map[string]canvas.ArrowType),
	}

	boxes, err := place(&parsed)
	if err != nil {
		return nil, err
	}
	for i, n := range parsed.Nodes {
		bounds := core.Rect{X: boxes[i].X, Y: boxes[i].Y, Width: boxes[i].Width, Height: boxes[i].Height}
		if err := surface.AddNode(diagram.NewNode(n.Name, bounds, n.Label)); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
	}

	for _, c := range parsed.Connections {
		if err := sc.connect(c); err != nil {
			return nil, fmt.Errorf("connection %q: %w", c.Name, err)
		}
	}

	logger.Debug("Scene loaded", "file", filename, "nodes", len(parsed.Nodes), "connections", len(parsed.Connections))
	return sc, nil
}

func (sc *Scene) connect(c *hclConnection) error {
	from, ok := sc.Surface.Node(c.From)
	if !ok {
		return fmt.Errorf("from %q: %w", c.From, diagram.ErrUnknownNode)
	}
	to, ok := sc.Surface.Node(c.To)
	if !ok {
		return fmt.Errorf("to %q: %w", c.To, diagram.ErrUnknownNode)
	}

	bends := make([]core.Point, 0, len(c.Bends))
	for i, b := range c.Bends {
		if len(b) != 2 {
			return fmt.Errorf("bend %d: %w", i, ErrBadBend)
		}
		bends = append(bends, core.Point{X: b[0], Y: b[1]})
	}

	if c.Arrow != "" {
		a, err := canvas.ParseArrowType(c.Arrow)
		if err != nil {
			return err
		}
		sc.Arrows[c.Name] = a
	}

	l, err := sc.Surface.ConnectNodes(c.Name, from, to)
	if err != nil {
		return err
	}
	if len(bends) > 0 {
		sc.Surface.SetConstraint(l, bends...)
	}
	return nil
}

// place sizes nodes without a width or height to their labels and lays out
// nodes without a position.
func place(parsed *hclBody) ([]layout.Box, error) {
	l := layout.NewLayeredLayout()
	if c := parsed.Layout; c != nil {
		if c.HorizontalSpacing != nil {
			l.HorizontalSpacing = *c.HorizontalSpacing
		}
		if c.VerticalSpacing != nil {
			l.VerticalSpacing = *c.VerticalSpacing
		}
	}

	boxes := make([]layout.Box, len(parsed.Nodes))
	for i, n := range parsed.Nodes {
		label := n.Label
		if label == "" {
			label = n.Name
		}
		w, h := l.Size(label)
		b := layout.Box{Name: n.Name, Label: label, Width: w, Height: h}
		if n.Width != nil {
			b.Width = *n.Width
		}
		if n.Height != nil {
			b.Height = *n.Height
		}
		if n.X != nil && n.Y != nil {
			b.X, b.Y, b.Fixed = *n.X, *n.Y, true
		}
		boxes[i] = b
	}

	edges := make([]layout.Edge, 0, len(parsed.Connections))
	seen := make(map[string]bool, len(parsed.Nodes))
	for _, n := range parsed.Nodes {
		seen[n.Name] = true
	}
	for _, c := range parsed.Connections {
		if seen[c.From] && seen[c.To] {
			edges = append(edges, layout.Edge{From: c.From, To: c.To})
		}
	}
	return l.Layout(boxes, edges)
}

func evalContext(area core.Rect) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"canvas": cty.ObjectVal(map[string]cty.Value{
				"width":  cty.NumberIntVal(int64(area.Width)),
				"height": cty.NumberIntVal(int64(area.Height)),
			}),
		},
	}
}
