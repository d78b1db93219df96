// Package transform builds the projection and view matrices for a frame.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/scene"
)

const (
	DefaultFOV  = 60.0 // vertical, degrees
	DefaultNear = 0.01
	DefaultFar  = 10.0
)

// Projection returns a perspective matrix for a vertical fov in degrees.
// Clip-space w of a transformed point equals its eye-space depth.
func Projection(fov float32, width, height int, near, far float32) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
}

// View returns the world-to-eye matrix of cam, the inverse of its
// camera-to-world transform.
func View(cam *scene.Camera) mgl32.Mat4 {
	p := cam.Position
	return cam.Orientation().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

func ViewProjection(view, projection mgl32.Mat4) mgl32.Mat4 {
	return projection.Mul4(view)
}

// Transformation keeps the matrices of the last frame. It is rebuilt every
// frame so camera motion and viewport resizes are always picked up.
type Transformation struct {
	FOV, Near, Far float32

	projection     mgl32.Mat4
	view           mgl32.Mat4
	viewProjection mgl32.Mat4
}

func New() *Transformation {
	return &Transformation{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar}
}

// Update recomputes projection, view and view-projection for the viewport
// and returns the combined matrix.
func (t *Transformation) Update(cam *scene.Camera, width, height int) mgl32.Mat4 {
	t.projection = Projection(t.FOV, width, height, t.Near, t.Far)
	t.view = View(cam)
	t.viewProjection = ViewProjection(t.view, t.projection)
	return t.viewProjection
}

func (t *Transformation) ProjectionMatrix() mgl32.Mat4     { return t.projection }
func (t *Transformation) ViewMatrix() mgl32.Mat4           { return t.view }
func (t *Transformation) ViewProjectionMatrix() mgl32.Mat4 { return t.viewProjection }
