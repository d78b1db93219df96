package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/config"
	"github.com/san-kum/kmviz/internal/loader"
	"github.com/san-kum/kmviz/internal/logging"
	"github.com/san-kum/kmviz/internal/loop"
	"github.com/san-kum/kmviz/internal/scene"
	"github.com/san-kum/kmviz/internal/transform"
)

// inputFiles picks the point and centroid paths from positional args,
// falling back to the --points and --centroids flags.
func inputFiles(args []string) (string, string, error) {
	p, c := pointsFile, centroidsFile
	switch len(args) {
	case 0:
	case 2:
		p, c = args[0], args[1]
	default:
		return "", "", fmt.Errorf("got %d positional paths, want a point file and a centroid file", len(args))
	}
	if p == "" || c == "" {
		return "", "", fmt.Errorf("need a point file and a centroid file (--points, --centroids)")
	}
	return p, c, nil
}

func setupLogging() {
	logging.SetLogger(logging.NewText(os.Stderr, verbose))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(configFile, preset)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("config resolved", "file", configFile, "preset", preset)
	return cfg, nil
}

func newCamera(cfg *config.Config) *scene.Camera {
	cam := scene.NewCamera(cfg.CameraPosition(), cfg.CameraRotation())
	if cfg.Camera.LookAt != nil {
		cam.LookAt(mgl32.Vec3(*cfg.Camera.LookAt))
	}
	return cam
}

func newTransform(cfg *config.Config) *transform.Transformation {
	tr := transform.New()
	tr.FOV = cfg.Projection.FOV
	tr.Near = cfg.Projection.Near
	tr.Far = cfg.Projection.Far
	return tr
}

func newController(cfg *config.Config) loop.Controller {
	return loop.Controller{
		MoveSpeed:        cfg.Controls.MoveSpeed,
		MouseSensitivity: cfg.Controls.MouseSensitivity,
	}
}

// loadScene resolves the config and loads the scene named by args or flags.
func loadScene(ctx context.Context, args []string) (*scene.Scene, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	points, centroids, err := inputFiles(args)
	if err != nil {
		return nil, nil, err
	}
	sc, err := loader.Load(ctx, points, centroids, newCamera(cfg), loader.Options{
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	return sc, cfg, nil
}
