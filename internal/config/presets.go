package config

import "sort"

// Presets are named starting views. Fields left zero in a preset keep
// their defaults when applied.
var Presets = map[string]*Config{
	"default": {},
	"overview": {
		Camera:     CameraConfig{Position: [3]float32{3, 3, 3}, LookAt: &[3]float32{0.5, 0.5, 0.5}},
		Projection: ProjectionConfig{Far: 20},
	},
	"close": {
		Camera:   CameraConfig{Position: [3]float32{0.5, 0.5, 1.2}},
		Controls: ControlsConfig{MoveSpeed: 0.25},
	},
	"wide": {
		Window:     WindowConfig{Width: 1920, Height: 800},
		Projection: ProjectionConfig{FOV: 90},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil if
// there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Apply(p)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies every non-zero field of o onto c.
func (c *Config) Apply(o *Config) {
	if o.Window.Width > 0 {
		c.Window.Width = o.Window.Width
	}
	if o.Window.Height > 0 {
		c.Window.Height = o.Window.Height
	}
	if o.Window.Background != "" {
		c.Window.Background = o.Window.Background
	}
	if o.Projection.FOV > 0 {
		c.Projection.FOV = o.Projection.FOV
	}
	if o.Projection.Near > 0 {
		c.Projection.Near = o.Projection.Near
	}
	if o.Projection.Far > 0 {
		c.Projection.Far = o.Projection.Far
	}
	if o.Camera.Position != ([3]float32{}) {
		c.Camera.Position = o.Camera.Position
	}
	if o.Camera.Rotation != ([3]float32{}) {
		c.Camera.Rotation = o.Camera.Rotation
	}
	if o.Camera.LookAt != nil {
		t := *o.Camera.LookAt
		c.Camera.LookAt = &t
	}
	if o.Controls.MoveSpeed > 0 {
		c.Controls.MoveSpeed = o.Controls.MoveSpeed
	}
	if o.Controls.MouseSensitivity > 0 {
		c.Controls.MouseSensitivity = o.Controls.MouseSensitivity
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
}
