package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging and normal lines")
	flagOut         = flag.String("out", "", "PNG output path (%d writes every frame)")
	flagFrames      = flag.Int("frames", 0, "Frames to simulate in png mode")
	flagTerminal    = flag.Bool("terminal", false, "Show frames in the terminal")
	flagModel       = flag.String("model", "", "glTF/GLB model to add to the scene")
	flagWidth       = flag.Int("width", 0, "Image width")
	flagHeight      = flag.Int("height", 0, "Image height")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the -write-config target, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Render.DrawNormals = true
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagFrames > 0 {
		cfg.Output.Frames = *flagFrames
	}
	if *flagTerminal {
		cfg.Output.Mode = ModeTerminal
	}
	if *flagModel != "" {
		cfg.Scene.Model = *flagModel
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
}
