package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Render.Width)
	}
	if cfg.Render.Height != 480 {
		t.Errorf("expected height 480, got %d", cfg.Render.Height)
	}
	if !cfg.Render.Fill || !cfg.Render.BackfaceCulling || !cfg.Render.DepthSort {
		t.Error("expected fill, culling and depth sort enabled by default")
	}
	if cfg.Render.DrawNormals {
		t.Error("expected draw_normals to be false by default")
	}
	if cfg.Render.Light != nil {
		t.Errorf("expected no light by default, got %v", *cfg.Render.Light)
	}
	if cfg.Camera.FOVDegrees != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Camera.FOVDegrees)
	}
	if cfg.Output.Mode != ModePNG {
		t.Errorf("expected mode png, got %s", cfg.Output.Mode)
	}
	if cfg.Scene.RetargetEvery != 2*time.Second {
		t.Errorf("expected retarget every 2s, got %v", cfg.Scene.RetargetEvery)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "robosim.yaml")

	yamlContent := `
render:
  width: 320
  height: 200
  background: "#000000"
  fill: false
  draw_normals: true
  light: [0, 1, 1]

camera:
  position: [10, 20, 30]
  fov_degrees: 45

output:
  mode: terminal
  path: "frames/f%03d.png"
  frames: 12

scene:
  joints: 4
  model: "teapot.glb"
  retarget_every: 500ms

logging:
  level: "debug"
  log_file: "robosim.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.Width != 320 || cfg.Render.Height != 200 {
		t.Errorf("expected 320x200, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Fill {
		t.Error("expected fill to be false")
	}
	if !cfg.Render.DrawNormals {
		t.Error("expected draw_normals to be true")
	}
	if cfg.Render.Light == nil || *cfg.Render.Light != [3]float64{0, 1, 1} {
		t.Errorf("expected light [0 1 1], got %v", cfg.Render.Light)
	}
	if cfg.Camera.Position != [3]float64{10, 20, 30} {
		t.Errorf("expected position [10 20 30], got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOVDegrees != 45 {
		t.Errorf("expected fov 45, got %v", cfg.Camera.FOVDegrees)
	}
	if cfg.Output.Mode != ModeTerminal {
		t.Errorf("expected mode terminal, got %s", cfg.Output.Mode)
	}
	if cfg.Output.Frames != 12 {
		t.Errorf("expected 12 frames, got %d", cfg.Output.Frames)
	}
	if cfg.Scene.Joints != 4 || cfg.Scene.Model != "teapot.glb" {
		t.Errorf("expected 4 joints and teapot.glb, got %d and %s", cfg.Scene.Joints, cfg.Scene.Model)
	}
	if cfg.Scene.RetargetEvery != 500*time.Millisecond {
		t.Errorf("expected retarget every 500ms, got %v", cfg.Scene.RetargetEvery)
	}
	if cfg.Logging.LogFile != "robosim.log" {
		t.Errorf("expected log file 'robosim.log', got %s", cfg.Logging.LogFile)
	}

	// keys missing from the file keep their defaults
	if !cfg.Render.BackfaceCulling {
		t.Error("expected backface_culling to keep its default")
	}
	if cfg.Camera.Far != 2000 {
		t.Errorf("expected far 2000, got %v", cfg.Camera.Far)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
render:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/robosim.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  mode: window\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFile(configPath)
	if err == nil || !strings.Contains(err.Error(), "output.mode") {
		t.Errorf("expected output.mode error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }, "render size"},
		{"bad background", func(c *Config) { c.Render.Background = "red" }, "render.background"},
		{"zero grid step", func(c *Config) { c.Render.GridStep = 0 }, "render.grid_step"},
		{"bad model color", func(c *Config) { c.Scene.ModelColor = "#12345g" }, "scene.model_color"},
		{"near behind far", func(c *Config) { c.Camera.Near, c.Camera.Far = 10, 5 }, "clip planes"},
		{"wide fov", func(c *Config) { c.Camera.FOVDegrees = 180 }, "fov_degrees"},
		{"unknown mode", func(c *Config) { c.Output.Mode = "gif" }, "output.mode"},
		{"zero fps", func(c *Config) { c.Output.FPS = 0 }, "output.fps"},
		{"negative joints", func(c *Config) { c.Scene.Joints = -1 }, "scene.joints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#000000", 0xff000000, false},
		{"#ff8000", 0xffff8000, false},
		{"#C0C0C0", 0xffc0c0c0, false},
		{"ff8000", 0, true},
		{"#ff80", 0, true},
		{"#gg0000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expected %#x, got %#x", tt.want, got)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "robosim.yaml")

	cfg := Default()
	cfg.Render.Width = 800
	cfg.Scene.RetargetEvery = 3 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Render.Width != 800 {
		t.Errorf("expected width 800, got %d", loaded.Render.Width)
	}
	if loaded.Scene.RetargetEvery != 3*time.Second {
		t.Errorf("expected retarget every 3s, got %v", loaded.Scene.RetargetEvery)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(dir, "robosim") {
		t.Errorf("ConfigDir %s does not name the application", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("robosim.yaml", []byte("render:\n  width: 800\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find robosim.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Render.DrawNormals {
					t.Error("expected normals with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "terminal flag",
			setup: func() { *flagTerminal = true },
			verify: func(cfg *Config) {
				if cfg.Output.Mode != ModeTerminal {
					t.Errorf("expected mode terminal, got %s", cfg.Output.Mode)
				}
			},
			teardown: func() { *flagTerminal = false },
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "out/%d.png"
				*flagFrames = 5
				*flagModel = "arm.glb"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Path != "out/%d.png" || cfg.Output.Frames != 5 {
					t.Errorf("expected out/%%d.png and 5 frames, got %s and %d", cfg.Output.Path, cfg.Output.Frames)
				}
				if cfg.Scene.Model != "arm.glb" {
					t.Errorf("expected model arm.glb, got %s", cfg.Scene.Model)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagFrames = 0
				*flagModel = ""
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1024
				*flagHeight = 768
			},
			verify: func(cfg *Config) {
				if cfg.Render.Width != 1024 || cfg.Render.Height != 768 {
					t.Errorf("expected 1024x768, got %dx%d", cfg.Render.Width, cfg.Render.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}
