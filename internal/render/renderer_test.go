package render_test

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/scene"
)

var (
	colorA = color.RGBA{200, 40, 40, 255}
	colorB = color.RGBA{40, 200, 40, 255}
)

func pixelsOf(c *render.Canvas, col color.RGBA) int {
	n := 0
	for _, p := range c.Pix {
		if p == col {
			n++
		}
	}
	return n
}

var _ = Describe("Renderer", func() {
	var (
		cam    *scene.Camera
		sc     *scene.Scene
		canvas *render.Canvas
		r      *render.Renderer
	)

	BeforeEach(func() {
		cam = scene.NewCamera(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{})
		sc = scene.New(cam)
		canvas = render.NewCanvas(1280, 720)
		r = render.New(canvas, nil)
	})

	Describe("projection", func() {
		It("puts the look-at focus at the canvas center", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			r.Render(sc)

			s := sc.Centroids[0].Screen
			Expect(s.Visible).To(BeTrue())
			Expect(s.X).To(BeNumerically("~", 640, 2))
			Expect(s.Y).To(BeNumerically("~", 360, 2))
			Expect(s.InvW).To(BeNumerically("~", 0.5, 1e-5))
		})

		It("keeps the focus centered for a rotated camera looking at it", func() {
			cam.Position = mgl32.Vec3{3, 1.5, -2}
			cam.LookAt(mgl32.Vec3{0.5, 0.5, 0.5})
			sc.AddCentroid(mgl32.Vec3{0.5, 0.5, 0.5}, colorA)
			r.Render(sc)

			s := sc.Centroids[0].Screen
			Expect(s.X).To(BeNumerically("~", 640, 2))
			Expect(s.Y).To(BeNumerically("~", 360, 2))
		})

		It("flips y so points above the camera land in the upper half", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0.5, 0}, colorA)
			r.Render(sc)
			Expect(sc.Centroids[0].Screen.Y).To(BeNumerically("<", 360))
		})

		It("re-derives the projection from the current canvas size", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			r.Render(sc)
			canvas.Resize(640, 480)
			r.Render(sc)

			s := sc.Centroids[0].Screen
			Expect(s.X).To(BeNumerically("~", 320, 2))
			Expect(s.Y).To(BeNumerically("~", 240, 2))
		})
	})

	Describe("depth culling", func() {
		DescribeTable("decides visibility from normalized depth",
			func(pos mgl32.Vec3, visible bool) {
				sc.AddCentroid(pos, colorA)
				st := r.Render(sc)

				Expect(sc.Centroids[0].Screen.Visible).To(Equal(visible))
				if visible {
					Expect(st.Drawn).To(Equal(1))
					Expect(pixelsOf(canvas, colorA)).To(BeNumerically(">", 0))
				} else {
					Expect(st.Culled).To(Equal(1))
					Expect(pixelsOf(canvas, colorA)).To(BeZero())
				}
			},
			Entry("between near and far", mgl32.Vec3{0, 0, 0}, true),
			Entry("just past the near plane", mgl32.Vec3{0, 0, 1.9}, true),
			Entry("behind the camera", mgl32.Vec3{0, 0, 3}, false),
			Entry("just inside the far plane", mgl32.Vec3{0, 0, -7.99}, true),
			Entry("on the far plane", mgl32.Vec3{0, 0, -8}, false),
			Entry("beyond the far plane", mgl32.Vec3{0, 0, -12}, false),
			Entry("far behind the camera", mgl32.Vec3{0, 0, 40}, false),
		)

		It("still records a screen position for culled entities", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, -12}, colorA)
			r.Render(sc)
			s := sc.Centroids[0].Screen
			Expect(s.Visible).To(BeFalse())
			Expect(s.X).To(BeNumerically("~", 640, 2))
			Expect(s.Depth).To(BeNumerically(">=", 1))
		})

		It("skips entities with a degenerate w without failing the frame", func() {
			c := sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			Expect(sc.AddPoint(mgl32.Vec3{1, 0, 2}, c)).To(Succeed())

			st := r.Render(sc)
			Expect(st.Degenerate).To(Equal(1))
			Expect(st.Drawn).To(Equal(1))
			Expect(sc.Points[0].Screen.Visible).To(BeFalse())
		})
	})

	Describe("rasterization", func() {
		It("covers a 9x9 block for a centroid", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			r.Render(sc)

			s := sc.Centroids[0].Screen
			Expect(pixelsOf(canvas, colorA)).To(Equal(81))
			Expect(canvas.RGBAAt(s.X-4, s.Y-4)).To(Equal(colorA))
			Expect(canvas.RGBAAt(s.X+4, s.Y+4)).To(Equal(colorA))
			Expect(canvas.RGBAAt(s.X+5, s.Y)).To(Equal(render.Black))
		})

		It("covers a 3x3 block for a point in its centroid's color", func() {
			c := sc.AddCentroid(mgl32.Vec3{0, 0, -50}, colorA)
			Expect(sc.AddPoint(mgl32.Vec3{0.2, 0.1, 0}, c)).To(Succeed())
			r.Render(sc)

			s := sc.Points[0].Screen
			Expect(pixelsOf(canvas, colorA)).To(Equal(9))
			Expect(canvas.RGBAAt(s.X+1, s.Y-1)).To(Equal(colorA))
			Expect(canvas.RGBAAt(s.X+2, s.Y)).To(Equal(render.Black))
		})

		It("draws points over centroids", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			b := sc.AddCentroid(mgl32.Vec3{0, 0, -50}, colorB)
			Expect(sc.AddPoint(mgl32.Vec3{0, 0, 0}, b)).To(Succeed())
			r.Render(sc)

			s := sc.Centroids[0].Screen
			Expect(canvas.RGBAAt(s.X, s.Y)).To(Equal(colorB))
			Expect(pixelsOf(canvas, colorA)).To(Equal(81 - 9))
			Expect(pixelsOf(canvas, colorB)).To(Equal(9))
		})

		It("clears the previous frame", func() {
			sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)
			r.Render(sc)
			cam.Move(5, 0, 0)
			r.Render(sc)
			Expect(pixelsOf(canvas, colorA)).To(BeZero())
			Expect(pixelsOf(canvas, render.Black)).To(Equal(1280 * 720))
		})
	})

	It("hands the finished canvas to the presenter", func() {
		var presented []*render.Canvas
		r.SetPresenter(render.PresenterFunc(func(c *render.Canvas) {
			presented = append(presented, c)
		}))
		sc.AddCentroid(mgl32.Vec3{0, 0, 0}, colorA)

		r.Render(sc)
		r.Render(sc)
		Expect(presented).To(HaveLen(2))
		Expect(presented[0]).To(BeIdenticalTo(canvas))
		Expect(r.LastFrame().Drawn).To(Equal(1))
	})
})
