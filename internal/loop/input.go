package loop

import "github.com/san-kum/kmviz/internal/scene"

const (
	DefaultMoveSpeed        = 1.0  // units per second along each local axis
	DefaultMouseSensitivity = 20.0 // degrees per pixel per second
)

// Input is the movement state sampled from the surface once per frame.
type Input struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool

	// MouseDX and MouseDY accumulate drag distance in pixels since the last tick.
	MouseDX, MouseDY float32
}

// AddMouse accumulates a drag delta.
func (in *Input) AddMouse(dx, dy float32) {
	in.MouseDX += dx
	in.MouseDY += dy
}

// Controller maps input onto camera motion for one fixed step.
type Controller struct {
	MoveSpeed        float32
	MouseSensitivity float32
}

func NewController() Controller {
	return Controller{MoveSpeed: DefaultMoveSpeed, MouseSensitivity: DefaultMouseSensitivity}
}

func axis(pos, neg bool) float32 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	}
	return 0
}

// Apply moves and rotates cam for a step of dt seconds, then clears the
// mouse delta so each drag is consumed once.
func (c Controller) Apply(cam *scene.Camera, in *Input, dt float64) {
	d := float32(dt)
	step := c.MoveSpeed * d
	cam.Move(axis(in.Right, in.Left)*step, axis(in.Up, in.Down)*step, axis(in.Backward, in.Forward)*step)

	if in.MouseDX != 0 || in.MouseDY != 0 {
		turn := c.MouseSensitivity * d
		cam.Rotate(in.MouseDY*turn, in.MouseDX*turn, 0)
	}
	in.MouseDX, in.MouseDY = 0, 0
}
