// Package render projects a scene into a Canvas and rasterizes each
// centroid and point as a square splat.
//
// There is no depth buffer. Centroids are drawn first and points after, so
// later writes win wherever splats overlap.
package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/scene"
	"github.com/san-kum/kmviz/internal/transform"
)

const (
	CentroidHalfExtent = 4 // 9x9 splat
	PointHalfExtent    = 1 // 3x3 splat

	// minW is the clip-space w below which a projection is treated as degenerate.
	minW = 1e-7
)

var Black = color.RGBA{0, 0, 0, 0xff}

// Presenter receives the canvas once a frame is complete.
type Presenter interface {
	Present(c *Canvas)
}

type PresenterFunc func(c *Canvas)

func (f PresenterFunc) Present(c *Canvas) { f(c) }

// FrameStats counts what happened to each entity in the last frame.
type FrameStats struct {
	Drawn      int
	Culled     int // outside the near/far depth range
	Degenerate int // w too close to zero to divide by
}

type Renderer struct {
	Background color.RGBA

	canvas    *Canvas
	transform *transform.Transformation
	presenter Presenter
	last      FrameStats
}

func New(canvas *Canvas, tr *transform.Transformation) *Renderer {
	if tr == nil {
		tr = transform.New()
	}
	return &Renderer{Background: Black, canvas: canvas, transform: tr}
}

func (r *Renderer) SetPresenter(p Presenter) { r.presenter = p }
func (r *Renderer) Canvas() *Canvas          { return r.canvas }
func (r *Renderer) LastFrame() FrameStats    { return r.last }

// Project maps a homogeneous position through vp into pixel coordinates of a
// width x height viewport. ok is false when w is zero or not finite, in
// which case the entity must not be drawn this frame.
func Project(vp mgl32.Mat4, pos mgl32.Vec4, width, height int) (s scene.Screen, ok bool) {
	clip := vp.Mul4x1(pos)
	w := clip.W()
	if math.Abs(float64(w)) < minW || math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
		return scene.Screen{}, false
	}
	x := ((clip.X()/w + 1) / 2) * float32(width)
	y := ((-clip.Y()/w + 1) / 2) * float32(height)
	z := clip.Z() / w
	s = scene.Screen{
		X:     int(x),
		Y:     int(y),
		Depth: z,
		InvW:  1 / w,
	}
	s.Visible = z > -1 && z < 1
	return s, true
}

// Render draws one frame of sc into the canvas and presents it.
func (r *Renderer) Render(sc *scene.Scene) FrameStats {
	c := r.canvas
	c.Clear(r.Background)
	vp := r.transform.Update(sc.Camera, c.Width, c.Height)

	var st FrameStats
	for i := range sc.Centroids {
		ct := &sc.Centroids[i]
		ct.Screen = r.splat(vp, ct.Position, CentroidHalfExtent, ct.Color, &st)
	}
	for i := range sc.Points {
		p := &sc.Points[i]
		p.Screen = r.splat(vp, p.Position, PointHalfExtent, sc.Centroids[p.Centroid].Color, &st)
	}

	r.last = st
	if r.presenter != nil {
		r.presenter.Present(c)
	}
	return st
}

func (r *Renderer) splat(vp mgl32.Mat4, pos mgl32.Vec4, half int, col color.RGBA, st *FrameStats) scene.Screen {
	s, ok := Project(vp, pos, r.canvas.Width, r.canvas.Height)
	switch {
	case !ok:
		st.Degenerate++
	case !s.Visible:
		st.Culled++
	default:
		r.canvas.FillSquare(s.X, s.Y, half, col)
		st.Drawn++
	}
	return s
}
