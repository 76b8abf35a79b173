// Package export writes routed scenes in the formats the command line offers.
package export

import (
	"fmt"

	"mtroute/scene"
)

// Format represents an export format.
type Format string

const (
	// FormatText draws the scene with Unicode box characters.
	FormatText Format = "text"
	// FormatASCII draws the scene with plain ASCII characters.
	FormatASCII Format = "ascii"
	// FormatJSON writes nodes, routes and router counters as JSON.
	FormatJSON Format = "json"
	// FormatObstacles draws the obstacle map the router works with.
	FormatObstacles Format = "obstacles"
)

// Exporter converts a routed scene to a target format.
type Exporter interface {
	Export(sc *scene.Scene) (string, error)
	GetFileExtension() string
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatText:
		return &TextExporter{}, nil
	case FormatASCII:
		return &TextExporter{ASCII: true}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	case FormatObstacles:
		return &ObstacleExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "txt", "unicode":
		return FormatText, nil
	case "ascii":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "obstacles", "debug":
		return FormatObstacles, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns every format, default first.
func GetAvailableFormats() []Format {
	return []Format{FormatText, FormatASCII, FormatJSON, FormatObstacles}
}
