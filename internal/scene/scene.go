package scene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDanglingCentroid indicates a point whose centroid index is not part of the scene.
var ErrDanglingCentroid = errors.New("scene: centroid index out of range")

// Screen is the per-frame projection of an entity. It is scratch state,
// overwritten by every render pass.
type Screen struct {
	X, Y    int
	Depth   float32 // normalized device depth z/w
	InvW    float32 // 1/w, kept for depth-based effects
	Visible bool    // false when culled or degenerate this frame
}

type Centroid struct {
	Position mgl32.Vec4
	Color    color.RGBA
	Screen   Screen
}

// Point references its centroid by index into the owning Scene's Centroids.
type Point struct {
	Position mgl32.Vec4
	Centroid int
	Screen   Screen
}

type Scene struct {
	Points    []Point
	Centroids []Centroid
	Camera    *Camera
}

func New(cam *Camera) *Scene {
	if cam == nil {
		cam = NewCamera(mgl32.Vec3{}, mgl32.Vec3{})
	}
	return &Scene{Camera: cam}
}

// AddCentroid appends a centroid and returns its index.
func (s *Scene) AddCentroid(pos mgl32.Vec3, c color.RGBA) int {
	s.Centroids = append(s.Centroids, Centroid{Position: pos.Vec4(1), Color: c})
	return len(s.Centroids) - 1
}

// AddPoint appends a point assigned to an existing centroid.
func (s *Scene) AddPoint(pos mgl32.Vec3, centroid int) error {
	if centroid < 0 || centroid >= len(s.Centroids) {
		return fmt.Errorf("%w: %d (have %d)", ErrDanglingCentroid, centroid, len(s.Centroids))
	}
	s.Points = append(s.Points, Point{Position: pos.Vec4(1), Centroid: centroid})
	return nil
}

// Centroid returns the centroid p is assigned to.
func (s *Scene) Centroid(p *Point) *Centroid {
	return &s.Centroids[p.Centroid]
}

// Color returns the color a point inherits from its centroid.
func (s *Scene) Color(p *Point) color.RGBA {
	return s.Centroid(p).Color
}

// CentroidPositions returns the centroid positions in insertion order.
func (s *Scene) CentroidPositions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Centroids))
	for i := range s.Centroids {
		out[i] = s.Centroids[i].Position.Vec3()
	}
	return out
}

// Validate checks that every point references a centroid of this scene.
func (s *Scene) Validate() error {
	for i := range s.Points {
		if c := s.Points[i].Centroid; c < 0 || c >= len(s.Centroids) {
			return fmt.Errorf("%w: point %d references %d", ErrDanglingCentroid, i, c)
		}
	}
	return nil
}

// Counts returns the number of points assigned to each centroid.
func (s *Scene) Counts() []int {
	counts := make([]int, len(s.Centroids))
	for i := range s.Points {
		counts[s.Points[i].Centroid]++
	}
	return counts
}

// Bounds returns the axis-aligned box enclosing all points and centroids.
// ok is false for an empty scene.
func (s *Scene) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	extend := func(p mgl32.Vec3) {
		if !ok {
			lo, hi, ok = p, p, true
			return
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	for i := range s.Centroids {
		extend(s.Centroids[i].Position.Vec3())
	}
	for i := range s.Points {
		extend(s.Points[i].Position.Vec3())
	}
	return lo, hi, ok
}
