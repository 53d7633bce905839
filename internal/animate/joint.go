// Package animate moves scene bodies between frames. Each joint angle is
// pulled towards a target by a harmonica spring, and targets are picked
// from a seeded random source so runs repeat exactly.
package animate

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/scene"
)

// Axis names the local axis a joint turns about.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Spring tracks one angle and its velocity.
type Spring struct {
	Angle  float64
	Target float64

	velocity float64
	spring   harmonica.Spring
}

// NewSpring creates a spring stepping at fps with the given angular
// frequency and damping ratio.
func NewSpring(fps int, frequency, damping float64) Spring {
	return Spring{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Update advances the angle by one frame towards the target.
func (s *Spring) Update() {
	s.Angle, s.velocity = s.spring.Update(s.Angle, s.velocity, s.Target)
}

// Velocity returns the angular velocity per second.
func (s *Spring) Velocity() float64 { return s.velocity }

// Joint turns a body about one axis, on top of the rotation the body had
// when it was added.
type Joint struct {
	Body  scene.BodyID
	Axis  Axis
	Limit float64 // targets stay within ±Limit radians

	base math3d.Vec3
	Spring
}

func (j *Joint) rotation() math3d.Vec3 {
	r := j.base
	switch j.Axis {
	case AxisX:
		r.X += j.Angle
	case AxisY:
		r.Y += j.Angle
	case AxisZ:
		r.Z += j.Angle
	}
	return r
}

// Option configures a Rig.
type Option func(*Rig)

// WithSpring sets the spring frequency and damping of joints added later.
func WithSpring(frequency, damping float64) Option {
	return func(r *Rig) {
		r.frequency = frequency
		r.damping = damping
	}
}

// WithSeed seeds target selection.
func WithSeed(seed int64) Option {
	return func(r *Rig) { r.rng = rand.New(rand.NewSource(seed)) }
}

// WithRetarget picks new targets every n frames. n <= 0 keeps targets
// until Retarget is called.
func WithRetarget(n int) Option {
	return func(r *Rig) { r.every = n }
}

// WithLogger sets the logger for retarget events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Rig) {
		if l == nil {
			l = zap.NewNop()
		}
		r.log = l
	}
}

// Rig animates a set of joints inside one scene.
type Rig struct {
	sc     *scene.Scene
	joints []*Joint
	fps    int

	frequency float64
	damping   float64
	every     int
	frame     int
	rng       *rand.Rand
	log       *zap.Logger
}

// NewRig creates a rig stepping sc at fps frames per second.
func NewRig(sc *scene.Scene, fps int, opts ...Option) *Rig {
	r := &Rig{
		sc:        sc,
		fps:       max(fps, 1),
		frequency: 4,
		damping:   0.6,
		rng:       rand.New(rand.NewSource(1)),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add makes id a joint turning about axis within ±limit radians.
func (r *Rig) Add(id scene.BodyID, axis Axis, limit float64) (*Joint, error) {
	if !r.sc.Contains(id) {
		return nil, fmt.Errorf("add joint %d: %w", id, scene.ErrInvalidBody)
	}
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("add joint %q: unknown axis %v", r.sc.Name(id), axis)
	}
	j := &Joint{
		Body:   id,
		Axis:   axis,
		Limit:  limit,
		base:   r.sc.Rotation(id),
		Spring: NewSpring(r.fps, r.frequency, r.damping),
	}
	r.joints = append(r.joints, j)
	return j, nil
}

// Joints returns the joints in the order they were added.
func (r *Rig) Joints() []*Joint { return r.joints }

// Retarget picks a new random target for every joint.
func (r *Rig) Retarget() {
	for _, j := range r.joints {
		j.Target = (r.rng.Float64()*2 - 1) * j.Limit
		r.log.Debug("joint retargeted",
			zap.String("body", r.sc.Name(j.Body)),
			zap.Stringer("axis", j.Axis),
			zap.Float64("target", j.Target),
		)
	}
}

// Step advances every joint by one frame and writes the rotations back
// to the scene.
func (r *Rig) Step() error {
	if r.every > 0 && r.frame%r.every == 0 {
		r.Retarget()
	}
	r.frame++

	for _, j := range r.joints {
		j.Update()
		rot := j.rotation()
		if err := r.sc.SetRotation(j.Body, rot.X, rot.Y, rot.Z); err != nil {
			return fmt.Errorf("step joint %q: %w", r.sc.Name(j.Body), err)
		}
	}
	return nil
}

// Frame returns the number of steps taken.
func (r *Rig) Frame() int { return r.frame }
