package export

import (
	"errors"
	"fmt"

	"mtroute/scene"
)

// TextExporter draws the scene as character art.
type TextExporter struct {
	ASCII bool
}

func (e *TextExporter) Export(sc *scene.Scene) (string, error) {
	if sc == nil {
		return "", errors.New("scene is nil")
	}
	r := sc.Renderer()
	r.ASCII = e.ASCII
	out, err := r.Render(sc.Surface)
	if err != nil {
		return "", fmt.Errorf("failed to render scene: %w", err)
	}
	return out, nil
}

func (e *TextExporter) GetFileExtension() string {
	return ".txt"
}

func (e *TextExporter) GetFormatName() string {
	if e.ASCII {
		return "ASCII"
	}
	return "Text"
}
