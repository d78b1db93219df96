package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/kmviz/internal/logging"
	"github.com/san-kum/kmviz/internal/loop"
	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/scene"
	"github.com/san-kum/kmviz/internal/transform"
)

const (
	MinimumWidth  = 320
	MinimumHeight = 240
)

type Options struct {
	Width, Height int
	Title         string
	Background    color.RGBA
	Controller    loop.Controller
	Transform     *transform.Transformation
}

// Window hosts the software-rendered canvas in a raylib texture. All raylib
// calls happen inside frame, which runs on the locked main thread.
type Window struct {
	scene    *scene.Scene
	canvas   *render.Canvas
	renderer *render.Renderer
	ctrl     loop.Controller
	input    loop.Input
	title    string
	status   string // set by the loop goroutine, applied on the next frame

	tex        rl.Texture2D
	texW, texH int
	closed     bool
}

func newWindow(sc *scene.Scene, opts Options) *Window {
	canvas := render.NewCanvas(opts.Width, opts.Height)
	r := render.New(canvas, opts.Transform)
	r.Background = opts.Background
	w := &Window{
		scene:    sc,
		canvas:   canvas,
		renderer: r,
		ctrl:     opts.Controller,
		title:    opts.Title,
	}
	r.SetPresenter(w)
	return w
}

// DefaultTitle is the window title for a scene, before any fps status.
func DefaultTitle(sc *scene.Scene) string {
	return fmt.Sprintf("K-means visualisation %d points, %d centroids,", len(sc.Points), len(sc.Centroids))
}

// Run opens the window and blocks until it is closed or ctx is canceled.
// It must be called from the main goroutine.
func Run(ctx context.Context, sc *scene.Scene, opts Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("gui: invalid window size %dx%d", opts.Width, opts.Height)
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle(sc)
	}
	log := logging.Logger()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetWindowMinSize(MinimumWidth, MinimumHeight)

	w := newWindow(sc, opts)
	defer w.unload()
	log.Info("window opened", "width", opts.Width, "height", opts.Height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := loop.NewDispatcher()
	l := loop.New(loop.DefaultStep)
	l.Invoker = d
	l.Update = w.update
	l.Render = w.frame
	l.Report = w.setStatus
	l.Done = func() bool { return w.closed }

	loopErr := make(chan error, 1)
	go func() {
		err := l.Run(ctx)
		d.Close()
		loopErr <- err
	}()

	serveErr := d.Serve(ctx)
	cancel()
	err := shutdownError(<-loopErr, serveErr)
	log.Info("window closed")
	return err
}

// shutdownError reduces the loop and serve results to the error Run reports.
// Cancellation and a closed dispatcher are the normal ways to stop.
func shutdownError(loopErr, serveErr error) error {
	for _, err := range []error{loopErr, serveErr} {
		switch {
		case err == nil,
			errors.Is(err, loop.ErrClosed),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			continue
		}
		return err
	}
	return nil
}

// update runs on the loop goroutine between frames.
func (w *Window) update(dt float64) {
	w.ctrl.Apply(w.scene.Camera, &w.input, dt)
}

func (w *Window) frame() {
	if rl.WindowShouldClose() {
		w.closed = true
		return
	}
	w.sampleInput()
	if w.status != "" {
		rl.SetWindowTitle(w.title + " " + w.status)
		w.status = ""
	}

	sw, sh := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	if sw != w.canvas.Width || sh != w.canvas.Height {
		logging.Logger().Debug("viewport resized", "width", sw, "height", sh)
	}
	w.canvas.Resize(sw, sh)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	// A minimized window reports a zero-sized screen.
	if sw > 0 && sh > 0 {
		w.ensureTexture(sw, sh)
		w.renderer.Render(w.scene)
		rl.DrawTexture(w.tex, 0, 0, rl.White)
	}
	rl.EndDrawing()
}

// Present uploads the finished canvas into the window texture.
func (w *Window) Present(c *render.Canvas) {
	if len(c.Pix) == 0 {
		return
	}
	rl.UpdateTexture(w.tex, c.Pix)
}

func (w *Window) sampleInput() {
	in := &w.input
	in.Forward = rl.IsKeyDown(rl.KeyW)
	in.Backward = rl.IsKeyDown(rl.KeyS)
	in.Left = rl.IsKeyDown(rl.KeyA)
	in.Right = rl.IsKeyDown(rl.KeyD)
	in.Down = rl.IsKeyDown(rl.KeyQ)
	in.Up = rl.IsKeyDown(rl.KeyE)
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		in.AddMouse(d.X, d.Y)
	}
}

func (w *Window) ensureTexture(width, height int) {
	if w.texW == width && w.texH == height && w.tex.ID != 0 {
		return
	}
	if w.tex.ID != 0 {
		rl.UnloadTexture(w.tex)
	}
	img := rl.GenImageColor(width, height, rl.Black)
	w.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	w.texW, w.texH = width, height
}

func (w *Window) setStatus(status string) {
	w.status = status
}

func (w *Window) unload() {
	if w.tex.ID != 0 {
		rl.UnloadTexture(w.tex)
	}
}
