package animate

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/robosim/pkg/mesh"
	"github.com/taigrr/robosim/pkg/scene"
)

func newScene(t *testing.T, names ...string) (*scene.Scene, []scene.BodyID) {
	t.Helper()
	sc := scene.New()
	ids := make([]scene.BodyID, len(names))
	for i, name := range names {
		id, err := sc.NewBody(mesh.Cube(1), name)
		if err != nil {
			t.Fatalf("NewBody(%q): %v", name, err)
		}
		ids[i] = id
	}
	return sc, ids
}

func TestSpringConverges(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		damping   float64
	}{
		{"critically damped", 4, 1},
		{"under damped", 4, 0.6},
		{"over damped", 6, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSpring(60, tc.frequency, tc.damping)
			s.Target = 1.2
			for range 600 {
				s.Update()
			}
			if math.Abs(s.Angle-s.Target) > 1e-3 {
				t.Errorf("angle = %v after 10s, want %v", s.Angle, s.Target)
			}
			if math.Abs(s.Velocity()) > 1e-2 {
				t.Errorf("velocity = %v, want about 0", s.Velocity())
			}
		})
	}
}

func TestSpringMovesTowardsTarget(t *testing.T) {
	s := NewSpring(30, 4, 1)
	s.Target = -1
	s.Update()
	if s.Angle >= 0 || s.Angle < -1 {
		t.Errorf("first step angle = %v, want between -1 and 0", s.Angle)
	}
}

func TestRigStepWritesRotation(t *testing.T) {
	sc, ids := newScene(t, "base", "joint")
	if err := sc.SetRotation(ids[1], 0, 0, 0.5); err != nil {
		t.Fatal(err)
	}

	r := NewRig(sc, 60, WithSpring(5, 1))
	j, err := r.Add(ids[1], AxisX, 1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	j.Target = 0.8

	for range 300 {
		if err := r.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	rot := sc.Rotation(ids[1])
	if math.Abs(rot.X-0.8) > 1e-3 {
		t.Errorf("rotation x = %v, want 0.8", rot.X)
	}
	if rot.Z != 0.5 {
		t.Errorf("rotation z = %v, want the base 0.5 kept", rot.Z)
	}
	if sc.Rotation(ids[0]).X != 0 {
		t.Error("rig moved a body that is not a joint")
	}
	if r.Frame() != 300 {
		t.Errorf("frame = %d, want 300", r.Frame())
	}
}

func TestRigRetargetIsDeterministic(t *testing.T) {
	targets := func(seed int64) []float64 {
		sc, ids := newScene(t, "a", "b", "c")
		r := NewRig(sc, 30, WithSeed(seed), WithRetarget(10))
		for i, id := range ids {
			if _, err := r.Add(id, Axis(i), 0.5); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		var out []float64
		for range 25 {
			if err := r.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			for _, j := range r.Joints() {
				out = append(out, j.Target)
			}
		}
		return out
	}

	a, b := targets(0xdeadbeef), targets(0xdeadbeef)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("target %d differs between runs: %v vs %v", i, a[i], b[i])
		}
		if math.Abs(a[i]) > 0.5 {
			t.Errorf("target %v outside the joint limit", a[i])
		}
	}

	// targets hold between retargets
	if a[3] != a[0] || a[27] != a[0] {
		t.Error("targets changed before the retarget interval")
	}
	if a[30] == a[0] {
		t.Error("targets did not change at the retarget interval")
	}
}

func TestRigAddErrors(t *testing.T) {
	sc, ids := newScene(t, "joint")
	r := NewRig(sc, 30)

	if _, err := r.Add(scene.BodyID(7), AxisX, 1); !errors.Is(err, scene.ErrInvalidBody) {
		t.Errorf("foreign id: err = %v, want ErrInvalidBody", err)
	}
	if _, err := r.Add(ids[0], Axis(5), 1); err == nil {
		t.Error("unknown axis accepted")
	}
	if len(r.Joints()) != 0 {
		t.Errorf("failed adds left %d joints", len(r.Joints()))
	}
}

func TestAxisString(t *testing.T) {
	tests := []struct {
		axis Axis
		want string
	}{
		{AxisX, "x"},
		{AxisY, "y"},
		{AxisZ, "z"},
		{Axis(9), "Axis(9)"},
	}
	for _, tc := range tests {
		if got := tc.axis.String(); got != tc.want {
			t.Errorf("Axis(%d).String() = %q, want %q", int(tc.axis), got, tc.want)
		}
	}
}
