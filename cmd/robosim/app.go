package main

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/robosim/internal/animate"
	"github.com/taigrr/robosim/internal/config"
	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/render"
	"github.com/taigrr/robosim/pkg/scene"
)

var (
	gridColor   = render.RGB(70, 70, 90)
	boundsColor = render.RGB(255, 255, 0)
)

// app holds the scene and everything needed to render one frame of it.
type app struct {
	cfg *config.Config
	log *zap.Logger

	sc     *scene.Scene
	arm    arm
	bodies []scene.BodyID
	rig    *animate.Rig

	cam      *render.Camera
	renderer *render.Renderer
	fb       *render.Framebuffer
	guides   *render.Guides
	overlay  *render.Overlay
	bg       render.Color
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	bgARGB, err := config.ParseColor(cfg.Render.Background)
	if err != nil {
		return nil, err
	}

	sc := scene.New()
	a, err := buildArm(sc, cfg.Scene.Joints)
	if err != nil {
		return nil, fmt.Errorf("build arm: %w", err)
	}
	if cfg.Scene.Model != "" {
		if _, err := loadModel(sc, cfg.Scene); err != nil {
			return nil, err
		}
	}

	rig := animate.NewRig(sc, cfg.Output.FPS,
		animate.WithSpring(cfg.Scene.JointFrequency, cfg.Scene.JointDamping),
		animate.WithSeed(cfg.Scene.Seed),
		animate.WithRetarget(retargetFrames(cfg.Scene.RetargetEvery, cfg.Output.FPS)),
		animate.WithLogger(log),
	)
	if err := rigArm(rig, a); err != nil {
		return nil, fmt.Errorf("rig arm: %w", err)
	}

	cam := newCamera(cfg.Camera, cfg.Render.Width, cfg.Render.Height)

	ap := &app{
		cfg:      cfg,
		log:      log,
		sc:       sc,
		arm:      a,
		bodies:   sc.Bodies(),
		rig:      rig,
		cam:      cam,
		renderer: render.NewRenderer(cam, rendererOptions(cfg.Render, log)...),
		fb:       render.NewFramebuffer(cfg.Render.Width, cfg.Render.Height),
		guides:   render.NewGuides(cam),
		bg:       render.FromARGB(bgARGB),
	}
	// half-block cells are too coarse for text
	if cfg.Render.Overlay && cfg.Output.Mode == config.ModePNG {
		ap.overlay, err = render.NewOverlay(cfg.Render.OverlaySize)
		if err != nil {
			return nil, err
		}
	}
	return ap, nil
}

// retargetFrames converts the retarget interval into whole frames.
func retargetFrames(every time.Duration, fps int) int {
	if every <= 0 {
		return 0
	}
	return max(int(math.Round(every.Seconds()*float64(fps))), 1)
}

func newCamera(cfg config.CameraConfig, width, height int) *render.Camera {
	cam := render.NewCamera()
	cam.SetFOV(cfg.FOVDegrees * math.Pi / 180)
	cam.SetClipPlanes(cfg.Near, cfg.Far)
	cam.SetAspectRatio(float64(width) / float64(height))
	cam.SetPosition(vec(cfg.Position))
	cam.LookAt(vec(cfg.Target))
	return cam
}

func rendererOptions(cfg config.RenderConfig, log *zap.Logger) []render.Option {
	opts := []render.Option{
		render.Fill(cfg.Fill),
		render.BackfaceCulling(cfg.BackfaceCulling),
		render.DepthSort(cfg.DepthSort),
		render.FlatShading(cfg.FlatShading),
		render.ClipLines(cfg.ClipLines),
		render.FrustumCulling(cfg.FrustumCulling),
		render.Logger(log),
	}
	if cfg.DrawNormals {
		opts = append(opts, render.DrawNormals(cfg.NormalLength))
	}
	if cfg.Light != nil {
		opts = append(opts, render.Light(vec(*cfg.Light), cfg.Ambient))
	} else {
		opts = append(opts, render.Ambient(cfg.Ambient))
	}
	return opts
}

func vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// resize changes the frame size and keeps the camera aspect in step.
func (a *app) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.fb.Resize(width, height)
	a.cam.SetAspectRatio(float64(width) / float64(height))
}

// frame advances the animation by one step and renders the scene.
func (a *app) frame() (render.FrameStats, error) {
	if err := a.rig.Step(); err != nil {
		return render.FrameStats{}, err
	}

	a.fb.BeginFrame(a.bg)
	if rc := a.cfg.Render; rc.Grid {
		a.guides.Grid(a.fb, rc.GridSize, rc.GridStep, -baseSize/2, gridColor)
		a.guides.Axes(a.fb, rc.GridStep)
	}
	stats, err := a.renderer.Render(a.fb, a.sc, a.bodies)
	if err != nil {
		return stats, fmt.Errorf("render frame %d: %w", a.rig.Frame(), err)
	}
	if a.cfg.Render.DrawBounds {
		for _, id := range a.bodies {
			a.guides.Box(a.fb, a.sc.Bounds(id), a.sc.AbsoluteMatrix(id), boundsColor)
		}
	}
	if a.overlay != nil {
		lh := a.overlay.LineHeight()
		a.overlay.DrawLines(a.fb, render.CameraLines(a.cam, stats), lh/2, lh)
	}
	return stats, nil
}

// Close releases the overlay font.
func (a *app) Close() error {
	if a.overlay != nil {
		return a.overlay.Close()
	}
	return nil
}
