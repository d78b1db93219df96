package export

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/scene"
)

func frontScene() *scene.Scene {
	sc := scene.New(scene.NewCamera(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{}))
	c := sc.AddCentroid(mgl32.Vec3{0, 0, 0}, color.RGBA{255, 0, 0, 255})
	_ = sc.AddPoint(mgl32.Vec3{0.1, 0, 0}, c)
	// behind the camera
	_ = sc.AddPoint(mgl32.Vec3{0, 0, 5}, c)
	return sc
}

func TestSceneToSVG(t *testing.T) {
	svg := SceneToSVG(frontScene(), nil, 200, 100, render.Black)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#000000"`) {
		t.Error("background missing")
	}
	// centroid projects to the center: 9x9 at (96, 46)
	if !strings.Contains(svg, `<rect x="96" y="46" width="9" height="9" fill="#ff0000"/>`) {
		t.Errorf("centroid splat missing:\n%s", svg)
	}
	if n := strings.Count(svg, `width="3" height="3"`); n != 1 {
		t.Errorf("expected 1 visible point, got %d", n)
	}
	if strings.Index(svg, `width="9"`) > strings.Index(svg, `width="3"`) {
		t.Error("centroids should be emitted before points")
	}
}

func TestSceneToSVG_Empty(t *testing.T) {
	if SceneToSVG(nil, nil, 10, 10, render.Black) != "" {
		t.Error("nil scene should produce nothing")
	}
	if SceneToSVG(frontScene(), nil, 0, 10, render.Black) != "" {
		t.Error("zero width should produce nothing")
	}
}

func TestWritePNG(t *testing.T) {
	c := render.NewCanvas(8, 4)
	c.Clear(render.Black)
	c.Set(2, 1, color.RGBA{0, 255, 0, 255})

	var buf bytes.Buffer
	if err := WritePNG(&buf, c); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
	r, g, _, _ := img.At(2, 1).RGBA()
	if r != 0 || g != 0xffff {
		t.Errorf("pixel (2,1) = %v", img.At(2, 1))
	}
}

func TestWritePNG_EmptyCanvas(t *testing.T) {
	if err := WritePNG(&bytes.Buffer{}, render.NewCanvas(0, 0)); !errors.Is(err, ErrEmptyCanvas) {
		t.Errorf("expected ErrEmptyCanvas, got %v", err)
	}
}
