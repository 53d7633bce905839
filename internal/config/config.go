// Package config handles loading and saving of the robosim settings.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Output modes.
const (
	ModePNG      = "png"
	ModeTerminal = "terminal"
)

// Config holds all settings of the demo binary.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Output  OutputConfig  `yaml:"output"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds raster size and pipeline switches.
type RenderConfig struct {
	Width           int         `yaml:"width"`
	Height          int         `yaml:"height"`
	Background      string      `yaml:"background"` // #rrggbb
	Fill            bool        `yaml:"fill"`
	BackfaceCulling bool        `yaml:"backface_culling"`
	DepthSort       bool        `yaml:"depth_sort"`
	FlatShading     bool        `yaml:"flat_shading"`
	ClipLines       bool        `yaml:"clip_lines"`
	FrustumCulling  bool        `yaml:"frustum_culling"`
	DrawNormals     bool        `yaml:"draw_normals"`
	NormalLength    float64     `yaml:"normal_length"`
	Ambient         float64     `yaml:"ambient"`
	Light           *[3]float64 `yaml:"light,omitempty"` // towards the light; unset shades by view angle
	Overlay         bool        `yaml:"overlay"`
	OverlaySize     float64     `yaml:"overlay_size"`
	Grid            bool        `yaml:"grid"`
	GridSize        float64     `yaml:"grid_size"`
	GridStep        float64     `yaml:"grid_step"`
	DrawBounds      bool        `yaml:"draw_bounds"`
}

// CameraConfig holds the initial camera placement.
type CameraConfig struct {
	Position   [3]float64 `yaml:"position"`
	Target     [3]float64 `yaml:"target"`
	FOVDegrees float64    `yaml:"fov_degrees"`
	Near       float64    `yaml:"near"`
	Far        float64    `yaml:"far"`
	MoveSpeed  float64    `yaml:"move_speed"` // units per key press
	TurnSpeed  float64    `yaml:"turn_speed"` // radians per key press
}

// OutputConfig selects where frames go.
type OutputConfig struct {
	Mode   string `yaml:"mode"`   // png or terminal
	Path   string `yaml:"path"`   // PNG path; a %d verb writes every frame
	Frames int    `yaml:"frames"` // frames to simulate in png mode
	FPS    int    `yaml:"fps"`
}

// SceneConfig holds the robot arm and the optional model.
type SceneConfig struct {
	Joints         int           `yaml:"joints"`
	Model          string        `yaml:"model"`       // optional .glb/.gltf path
	ModelColor     string        `yaml:"model_color"` // #rrggbb
	ModelPosition  [3]float64    `yaml:"model_position"`
	JointFrequency float64       `yaml:"joint_frequency"` // spring angular frequency
	JointDamping   float64       `yaml:"joint_damping"`
	RetargetEvery  time.Duration `yaml:"retarget_every"`
	Seed           int64         `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:           640,
			Height:          480,
			Background:      "#1e1e28",
			Fill:            true,
			BackfaceCulling: true,
			DepthSort:       true,
			FlatShading:     true,
			ClipLines:       true,
			NormalLength:    10,
			Ambient:         0.15,
			Overlay:         true,
			OverlaySize:     13,
			Grid:            true,
			GridSize:        400,
			GridStep:        25,
		},
		Camera: CameraConfig{
			Position:   [3]float64{0, 100, 350},
			Target:     [3]float64{0, 100, 0},
			FOVDegrees: 60,
			Near:       1,
			Far:        2000,
			MoveSpeed:  5,
			TurnSpeed:  0.05,
		},
		Output: OutputConfig{
			Mode:   ModePNG,
			Path:   "robosim.png",
			Frames: 60,
			FPS:    30,
		},
		Scene: SceneConfig{
			Joints:         2,
			ModelColor:     "#c0c0c0",
			ModelPosition:  [3]float64{150, 0, 0},
			JointFrequency: 4,
			JointDamping:   0.6,
			RetargetEvery:  2 * time.Second,
			Seed:           0xdeadbeef,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the renderer cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if c.Render.Grid && c.Render.GridStep <= 0 {
		errs = append(errs, fmt.Errorf("render.grid_step %v must be positive", c.Render.GridStep))
	}
	if _, err := ParseColor(c.Render.Background); err != nil {
		errs = append(errs, fmt.Errorf("render.background: %w", err))
	}
	if _, err := ParseColor(c.Scene.ModelColor); err != nil {
		errs = append(errs, fmt.Errorf("scene.model_color: %w", err))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes %v..%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees %v must be in (0, 180)", c.Camera.FOVDegrees))
	}
	switch c.Output.Mode {
	case ModePNG, ModeTerminal:
	default:
		errs = append(errs, fmt.Errorf("output.mode %q must be %q or %q", c.Output.Mode, ModePNG, ModeTerminal))
	}
	if c.Output.FPS <= 0 {
		errs = append(errs, fmt.Errorf("output.fps %d must be positive", c.Output.FPS))
	}
	if c.Scene.Joints < 0 {
		errs = append(errs, fmt.Errorf("scene.joints %d must not be negative", c.Scene.Joints))
	}
	return errors.Join(errs...)
}

// ParseColor parses #rrggbb into packed opaque 0xAARRGGBB.
func ParseColor(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q is not #rrggbb", s)
	}
	rgb, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return 0xff000000 | uint32(rgb), nil
}
