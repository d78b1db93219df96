package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/scene"
)

func TestProjection_ClipWIsEyeDepth(t *testing.T) {
	proj := Projection(DefaultFOV, 1280, 720, DefaultNear, DefaultFar)
	for _, depth := range []float32{0.5, 1, 2, 7.5} {
		clip := proj.Mul4x1(mgl32.Vec4{0.3, -0.2, -depth, 1})
		if math.Abs(float64(clip.W()-depth)) > 1e-5 {
			t.Errorf("depth %v: clip w = %v", depth, clip.W())
		}
	}
}

func TestProjection_AspectFollowsViewport(t *testing.T) {
	wide := Projection(DefaultFOV, 1600, 400, DefaultNear, DefaultFar)
	square := Projection(DefaultFOV, 400, 400, DefaultNear, DefaultFar)
	if wide.At(1, 1) != square.At(1, 1) {
		t.Errorf("vertical scale should not depend on aspect: %v vs %v", wide.At(1, 1), square.At(1, 1))
	}
	if math.Abs(float64(wide.At(0, 0)*4-square.At(0, 0))) > 1e-5 {
		t.Errorf("horizontal scale should shrink with aspect: %v vs %v", wide.At(0, 0), square.At(0, 0))
	}
}

func TestProjection_ZeroHeight(t *testing.T) {
	m := Projection(DefaultFOV, 100, 0, DefaultNear, DefaultFar)
	for i := 0; i < 16; i++ {
		if math.IsNaN(float64(m[i])) || math.IsInf(float64(m[i]), 0) {
			t.Fatalf("projection with zero height has non-finite entry %d: %v", i, m)
		}
	}
}

func TestView_InverseOfCameraTransform(t *testing.T) {
	cam := scene.NewCamera(mgl32.Vec3{1, -2, 3}, mgl32.Vec3{20, 35, -10})
	view := View(cam)

	eye := view.Mul4x1(cam.Position.Vec4(1))
	if !eye.Vec3().ApproxEqualThreshold(mgl32.Vec3{}, 1e-5) {
		t.Errorf("camera position should map to eye origin, got %v", eye)
	}

	ahead := cam.Position.Add(cam.Forward().Mul(2))
	eye = view.Mul4x1(ahead.Vec4(1))
	if !eye.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -2}, 1e-4) {
		t.Errorf("point ahead of camera should map to -Z, got %v", eye)
	}

	camToWorld := view.Inv()
	right := camToWorld.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	if !right.ApproxEqualThreshold(cam.Right(), 1e-5) {
		t.Errorf("inverse view x axis = %v, want camera right %v", right, cam.Right())
	}
}

func TestTransformation_Update(t *testing.T) {
	tr := New()
	cam := scene.NewCamera(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{})

	vp := tr.Update(cam, 1280, 720)
	want := tr.ProjectionMatrix().Mul4(tr.ViewMatrix())
	if !vp.ApproxEqual(want) || !tr.ViewProjectionMatrix().ApproxEqual(want) {
		t.Errorf("view-projection should be projection * view")
	}

	cam.Move(0, 0, 1)
	moved := tr.Update(cam, 1280, 720)
	if moved.ApproxEqual(vp) {
		t.Error("view-projection should change after camera moves")
	}

	resized := tr.Update(cam, 640, 720)
	if resized.ApproxEqual(moved) {
		t.Error("view-projection should change after resize")
	}
}
