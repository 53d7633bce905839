package math3d

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestVec3Basics(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", a.Add(b), V3(5, 7, 9)},
		{"sub", b.Sub(a), V3(3, 3, 3)},
		{"scale", a.Scale(2), V3(2, 4, 6)},
		{"cross x*y", V3(1, 0, 0).Cross(V3(0, 1, 0)), V3(0, 0, 1)},
		{"negate", a.Negate(), V3(-1, -2, -3)},
		{"lerp", a.Lerp(b, 0.5), V3(2.5, 3.5, 4.5)},
		{"min", a.Min(V3(0, 5, 1)), V3(0, 2, 1)},
		{"max", a.Max(V3(0, 5, 1)), V3(1, 5, 3)},
		{"normalize zero", Zero3().Normalize(), Zero3()},
		{"normalize", V3(0, 3, 4).Normalize(), V3(0, 0.6, 0.8)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.ApproxEqual(tc.want, tol) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if d := a.Dot(b); d != 32 {
		t.Errorf("dot = %v, want 32", d)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"x quarter turn", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"y quarter turn", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"z quarter turn", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		// X first: (0,1,0) -> (0,0,1), then Y: (0,0,1) -> (1,0,0)
		{"euler order", RotateEuler(math.Pi/2, math.Pi/2, 0), V3(0, 1, 0), V3(1, 0, 0)},
		{"translate point", Translate(V3(1, 2, 3)), V3(1, 1, 1), V3(2, 3, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3(tc.in)
			if !got.ApproxEqual(tc.want, tol) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotateEulerMatchesComposition(t *testing.T) {
	x, y, z := 0.3, -1.1, 2.4
	want := RotateZ(z).Mul(RotateY(y)).Mul(RotateX(x))
	if got := RotateEuler(x, y, z); !got.ApproxEqual(want, tol) {
		t.Errorf("RotateEuler = %v, want %v", got, want)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(10, 20, 30))
	got := m.MulVec3Dir(V3(1, 0, 0))
	if !got.ApproxEqual(V3(1, 0, 0), tol) {
		t.Errorf("direction moved by translation: %v", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateEuler(0.4, 0.5, 0.6)).Mul(Scale(V3(2, 3, 4)))
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-9) {
		t.Errorf("m * inverse(m) = %v, want identity", got)
	}

	var singular Mat4
	if got := singular.Inverse(); got != Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestInverseTransposeKeepsNormalsPerpendicular(t *testing.T) {
	// Non-uniform scale tilts a plain direction transform off the surface.
	m := Scale(V3(1, 4, 1)).Mul(RotateZ(0.7))
	tangent := V3(1, 0, 0)
	normal := V3(0, 1, 0)

	tt := m.MulVec3Dir(tangent)
	nn := m.InverseTranspose().MulVec3Dir(normal)
	if d := tt.Dot(nn); math.Abs(d) > 1e-9 {
		t.Errorf("transformed normal not perpendicular: dot = %v", d)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	near, far := 1.0, 100.0
	p := Perspective(math.Pi/2, 1, near, far)

	tests := []struct {
		name  string
		z     float64
		wantZ float64
	}{
		{"near plane", -near, -1},
		{"far plane", -far, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ndc := p.MulVec4(V4(0, 0, tc.z, 1)).PerspectiveDivide()
			if math.Abs(ndc.Z-tc.wantZ) > 1e-9 {
				t.Errorf("ndc z = %v, want %v", ndc.Z, tc.wantZ)
			}
		})
	}
}

func TestLookAtMovesTargetOntoNegativeZ(t *testing.T) {
	view := LookAt(V3(5, 0, 0), Zero3(), Up())
	got := view.MulVec3(Zero3())
	if !got.ApproxEqual(V3(0, 0, -5), tol) {
		t.Errorf("target in view space = %v, want (0, 0, -5)", got)
	}
}

func TestPerspectiveDivideZeroW(t *testing.T) {
	v := V4(1, 2, 3, 0).PerspectiveDivide()
	if v != V3(1, 2, 3) {
		t.Errorf("got %v, want components untouched", v)
	}
}
