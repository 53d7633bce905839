package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// runPNG simulates the configured number of frames. A %d verb in the output
// path writes every frame, otherwise only the last one is saved.
func runPNG(ctx context.Context, a *app) error {
	path := a.cfg.Output.Path
	everyFrame := strings.Contains(path, "%d")
	frames := max(a.cfg.Output.Frames, 1)

	for i := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := a.frame()
		if err != nil {
			return err
		}
		if everyFrame {
			if err := save(a, fmt.Sprintf(path, i)); err != nil {
				return err
			}
		}
		if i == frames-1 {
			a.log.Info("simulation finished",
				zap.Int("frames", frames),
				zap.Int("triangles", stats.Triangles),
				zap.Int("drawn", stats.Drawn),
			)
		}
	}

	if !everyFrame {
		return save(a, path)
	}
	return nil
}

func save(a *app, path string) error {
	if err := a.fb.SavePNG(path); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	a.log.Debug("frame saved", zap.String("path", path))
	return nil
}
