package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/robosim/pkg/render"
)

// command changes the app between frames. Input handlers only build
// commands; the render loop runs them.
type command func(a *app)

// keyCommand maps a key press to a camera or pipeline command.
func keyCommand(ev uv.KeyPressEvent, move, turn float64) command {
	switch {
	case ev.MatchString("w"):
		return func(a *app) { a.cam.MoveForward(move) }
	case ev.MatchString("s"):
		return func(a *app) { a.cam.MoveForward(-move) }
	case ev.MatchString("a"):
		return func(a *app) { a.cam.MoveRight(-move) }
	case ev.MatchString("d"):
		return func(a *app) { a.cam.MoveRight(move) }
	case ev.MatchString("+", "="):
		return func(a *app) { a.cam.MoveUp(move) }
	case ev.MatchString("-", "_"):
		return func(a *app) { a.cam.MoveUp(-move) }
	case ev.MatchString("up"):
		return func(a *app) { a.cam.Rotate(turn, 0) }
	case ev.MatchString("down"):
		return func(a *app) { a.cam.Rotate(-turn, 0) }
	case ev.MatchString("left"):
		return func(a *app) { a.cam.Rotate(0, turn) }
	case ev.MatchString("right"):
		return func(a *app) { a.cam.Rotate(0, -turn) }
	case ev.MatchString("c"):
		return func(a *app) {
			a.renderer.Apply(render.BackfaceCulling(!a.renderer.Settings().BackfaceCulling))
		}
	case ev.MatchString("f"):
		return func(a *app) { a.renderer.Apply(render.Fill(!a.renderer.Settings().Fill)) }
	case ev.MatchString("n"):
		return func(a *app) {
			length := 0.0
			if a.renderer.Settings().NormalLength == 0 {
				length = a.cfg.Render.NormalLength
			}
			a.renderer.Apply(render.DrawNormals(length))
		}
	case ev.MatchString("space"):
		return func(a *app) { a.rig.Retarget() }
	}
	return nil
}

// runTerminal shows frames in the terminal until Esc or ctx ends.
func runTerminal(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	a.resize(render.TerminalSize(width, height))

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			a.log.Warn("terminal shutdown", zap.Error(err))
		}
	}()

	cmds := make(chan command, 16)
	move, turn := a.cfg.Camera.MoveSpeed, a.cfg.Camera.TurnSpeed
	go func() {
		for ev := range term.Events() {
			var cmd command
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				cmd = func(a *app) {
					term.Erase()
					term.Resize(w, h)
					a.resize(render.TerminalSize(w, h))
				}
			case uv.KeyPressEvent:
				if ev.MatchString("escape", "ctrl+c") {
					cancel()
					return
				}
				cmd = keyCommand(ev, move, turn)
			}
			if cmd == nil {
				continue
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Output.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-cmds:
			cmd(a)
		case <-ticker.C:
			if _, err := a.frame(); err != nil {
				return err
			}
			a.fb.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
