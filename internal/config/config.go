package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth            = 1280
	DefaultHeight           = 720
	DefaultFOV              = 60.0
	DefaultNear             = 0.01
	DefaultFar              = 10.0
	DefaultMoveSpeed        = 1.0
	DefaultMouseSensitivity = 20.0
	DefaultBackground       = "#000000"
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Projection ProjectionConfig `yaml:"projection"`
	Camera     CameraConfig     `yaml:"camera"`
	Controls   ControlsConfig   `yaml:"controls"`
	Seed       int64            `yaml:"seed"`
	Workers    int              `yaml:"workers"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

type ProjectionConfig struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	// LookAt, when set, overrides Rotation so the camera faces this point.
	LookAt *[3]float32 `yaml:"look_at,omitempty"`
}

type ControlsConfig struct {
	MoveSpeed        float32 `yaml:"move_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: DefaultBackground,
		},
		Projection: ProjectionConfig{
			FOV:  DefaultFOV,
			Near: DefaultNear,
			Far:  DefaultFar,
		},
		Camera: CameraConfig{
			Position: [3]float32{0.5, 0.5, 2},
		},
		Controls: ControlsConfig{
			MoveSpeed:        DefaultMoveSpeed,
			MouseSensitivity: DefaultMouseSensitivity,
		},
		Seed: 1,
	}
}

// Load overlays the yaml file at path onto the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the yaml file at path onto base, which is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// Resolve builds the effective configuration: defaults, then the named
// preset, then the file at path. Empty arguments are skipped.
func Resolve(path, preset string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		if cfg = GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalidConfig, preset, ListPresets())
		}
	}
	if path == "" {
		return cfg, cfg.Validate()
	}
	return LoadOver(path, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Projection.FOV <= 0 || c.Projection.FOV >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalidConfig, c.Projection.FOV)
	case c.Projection.Near <= 0 || c.Projection.Near >= c.Projection.Far:
		return fmt.Errorf("%w: need 0 < near < far, got near=%v far=%v", ErrInvalidConfig, c.Projection.Near, c.Projection.Far)
	}
	if _, err := ParseColor(c.Window.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalidConfig, err)
	}
	return nil
}

// BackgroundColor returns the parsed background; invalid values fall back to black.
func (c *Config) BackgroundColor() color.RGBA {
	col, err := ParseColor(c.Window.Background)
	if err != nil {
		return color.RGBA{0, 0, 0, 0xff}
	}
	return col
}

func (c *Config) CameraPosition() mgl32.Vec3 { return mgl32.Vec3(c.Camera.Position) }
func (c *Config) CameraRotation() mgl32.Vec3 { return mgl32.Vec3(c.Camera.Rotation) }

// ParseColor parses "#rrggbb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
