package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-fly camera. Rotation holds pitch, yaw and roll in degrees,
// applied as sequential X, Y, Z rotations.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

func NewCamera(position, rotation mgl32.Vec3) *Camera {
	return &Camera{Position: position, Rotation: rotation}
}

// Orientation returns the world-to-eye rotation Rx(pitch)·Ry(yaw)·Rz(roll).
func (c *Camera) Orientation() mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(c.Rotation.X()))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(c.Rotation.Y()))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Rotation.Z()))
	return rx.Mul4(ry).Mul4(rz)
}

// toWorld maps a camera-local direction into world space. The orientation is
// orthonormal so its transpose is the inverse.
func (c *Camera) toWorld(local mgl32.Vec3) mgl32.Vec3 {
	return c.Orientation().Transpose().Mul4x1(local.Vec4(0)).Vec3()
}

// Move translates the camera by a delta expressed in camera-local axes.
// The caller has already scaled the delta by speed and frame time.
func (c *Camera) Move(dx, dy, dz float32) {
	if dx == 0 && dy == 0 && dz == 0 {
		return
	}
	c.Position = c.Position.Add(c.toWorld(mgl32.Vec3{dx, dy, dz}))
}

// Rotate accumulates pitch, yaw and roll in degrees. Angles are not wrapped.
func (c *Camera) Rotate(dPitch, dYaw, dRoll float32) {
	c.Rotation = c.Rotation.Add(mgl32.Vec3{dPitch, dYaw, dRoll})
}

func (c *Camera) Forward() mgl32.Vec3 { return c.toWorld(mgl32.Vec3{0, 0, -1}) }
func (c *Camera) Right() mgl32.Vec3   { return c.toWorld(mgl32.Vec3{1, 0, 0}) }
func (c *Camera) Up() mgl32.Vec3      { return c.toWorld(mgl32.Vec3{0, 1, 0}) }

// LookAt sets pitch and yaw so the forward axis points at target and clears
// roll. It is a no-op when target coincides with the camera position.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	pitch := math.Asin(float64(mgl32.Clamp(-d.Y(), -1, 1)))
	yaw := math.Atan2(float64(d.X()), float64(-d.Z()))
	c.Rotation = mgl32.Vec3{
		mgl32.RadToDeg(float32(pitch)),
		mgl32.RadToDeg(float32(yaw)),
		0,
	}
}
