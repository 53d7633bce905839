// robosim - software rendered robot arm
// Renders an animated robot arm with the CPU pipeline, either to PNG files
// or live in the terminal.
//
// Controls (terminal mode):
//
//	W/S         - Move forward/back
//	A/D         - Move left/right
//	+/-         - Move up/down
//	Arrows      - Turn the camera
//	C           - Toggle backface culling
//	F           - Toggle fill (outlines only when off)
//	N           - Toggle normal lines
//	Space       - Pick new joint targets
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taigrr/robosim/internal/config"
	"github.com/taigrr/robosim/internal/logger"
)

func main() {
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Config written to %s\n", path)
		return nil
	}

	// the terminal viewer owns the screen, so it only logs to a file
	if cfg.Output.Mode == config.ModeTerminal {
		var fileCfg logger.FileConfig
		if cfg.Logging.LogFile != "" {
			fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		}
		err = logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil)
	} else {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, logger.Log)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("scene ready",
		zap.Int("bodies", len(a.bodies)),
		zap.Int("joints", len(a.rig.Joints())),
		zap.String("mode", cfg.Output.Mode),
	)

	switch cfg.Output.Mode {
	case config.ModeTerminal:
		return runTerminal(ctx, a)
	default:
		return runPNG(ctx, a)
	}
}
