package export

import (
	"errors"
	"strings"

	"mtroute/obstacles"
	"mtroute/scene"
)

// ObstacleExporter draws the obstacle zones the router currently tracks,
// followed by a legend and the zone list.
type ObstacleExporter struct{}

func (e *ObstacleExporter) Export(sc *scene.Scene) (string, error) {
	if sc == nil {
		return "", errors.New("scene is nil")
	}
	zones := sc.Router.Zones()
	frame := sc.Renderer().Frame(sc.Surface)

	dv := &obstacles.DebugVisualizer{ShowClearance: true}
	var sb strings.Builder
	sb.WriteString(dv.VisualizeObstacles(frame, zones))
	sb.WriteString("\n")
	sb.WriteString(dv.Legend())
	sb.WriteString("\n\n")
	sb.WriteString(obstacles.ExportObstacleData(zones))
	return sb.String(), nil
}

func (e *ObstacleExporter) GetFileExtension() string {
	return ".txt"
}

func (e *ObstacleExporter) GetFormatName() string {
	return "Obstacles"
}
