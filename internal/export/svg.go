package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/scene"
	"github.com/san-kum/kmviz/internal/transform"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SceneToSVG projects the scene from its camera and emits one square per
// visible entity, centroids first, matching the raster splat sizes.
func SceneToSVG(sc *scene.Scene, tr *transform.Transformation, width, height int, bg color.RGBA) string {
	if sc == nil || width <= 0 || height <= 0 {
		return ""
	}
	if tr == nil {
		tr = transform.New()
	}
	vp := tr.Update(sc.Camera, width, height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(bg)))

	rect := func(s scene.Screen, half int, col color.RGBA) {
		size := 2*half + 1
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, s.X-half, s.Y-half, size, size, hex(col)))
	}

	sb.WriteString(`<g id="centroids">` + "\n")
	for i := range sc.Centroids {
		c := &sc.Centroids[i]
		if s, ok := render.Project(vp, c.Position, width, height); ok && s.Visible {
			rect(s, render.CentroidHalfExtent, c.Color)
		}
	}
	sb.WriteString("</g>\n<g id=\"points\">\n")
	for i := range sc.Points {
		p := &sc.Points[i]
		if s, ok := render.Project(vp, p.Position, width, height); ok && s.Visible {
			rect(s, render.PointHalfExtent, sc.Color(p))
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
