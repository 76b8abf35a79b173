package export

import (
	"encoding/json"
	"errors"

	"mtroute/core"
	"mtroute/scene"
)

type jsonDocument struct {
	Canvas      *jsonRect  `json:"canvas,omitempty"`
	Spacing     int        `json:"spacing"`
	Nodes       []jsonNode `json:"nodes"`
	Connections []jsonLink `json:"connections"`
	Stats       jsonStats  `json:"stats"`
}

type jsonRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type jsonNode struct {
	Name   string   `json:"name"`
	Label  string   `json:"label,omitempty"`
	Bounds jsonRect `json:"bounds"`
}

type jsonLink struct {
	Name   string   `json:"name"`
	Points [][2]int `json:"points"`
	Bends  [][2]int `json:"bends,omitempty"`
}

type jsonStats struct {
	Solves    int `json:"solves"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// JSONExporter exports the routed scene as JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(sc *scene.Scene) (string, error) {
	if sc == nil {
		return "", errors.New("scene is nil")
	}
	doc := jsonDocument{
		Spacing:     sc.Router.Spacing(),
		Nodes:       []jsonNode{},
		Connections: []jsonLink{},
	}
	if area := sc.Surface.ClientArea(); !area.IsEmpty() {
		r := toJSONRect(area)
		doc.Canvas = &r
	}
	for _, n := range sc.Surface.Nodes() {
		doc.Nodes = append(doc.Nodes, jsonNode{Name: n.Name(), Label: n.Label(), Bounds: toJSONRect(n.Bounds())})
	}
	for _, l := range sc.Surface.Links() {
		link := jsonLink{Name: l.Name(), Points: toPairs(l.Points())}
		for _, b := range sc.Router.Constraint(l) {
			loc := b.Location()
			link.Bends = append(link.Bends, [2]int{loc.X, loc.Y})
		}
		doc.Connections = append(doc.Connections, link)
	}
	stats := sc.Router.Stats()
	doc.Stats = jsonStats{Solves: stats.Solves, Published: stats.Published, Failed: stats.Failed}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}

func toJSONRect(r core.Rect) jsonRect {
	return jsonRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func toPairs(pts core.PointList) [][2]int {
	out := make([][2]int, len(pts))
	for i, p := range pts {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}
