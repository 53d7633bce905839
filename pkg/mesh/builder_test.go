package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/robosim/pkg/math3d"
)

func TestAddTriangleNormal(t *testing.T) {
	m := NewBuilder().
		AddTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), Red).
		Build()

	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("got %d vertices / %d indices, want 3 / 3", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		if v.Normal != math3d.V3(0, 0, 1) {
			t.Errorf("vertex %d normal = %v, want (0, 0, 1)", i, v.Normal)
		}
		if v.Color != Red {
			t.Errorf("vertex %d color = %#x, want red", i, v.Color)
		}
	}
}

func TestAddTriangleDegenerate(t *testing.T) {
	p := math3d.V3(1, 1, 1)
	m := NewBuilder().AddTriangle(p, p, p, Red).Build()
	if n := m.Vertices[0].Normal; n != math3d.Zero3() {
		t.Errorf("degenerate normal = %v, want zero", n)
	}
}

func TestAddQuadIndices(t *testing.T) {
	m := NewBuilder().
		AddQuad(math3d.V3(0, 1, 0), math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), Green).
		Build()

	want := []int{0, 1, 2, 3, 0, 2}
	if len(m.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}
}

func TestBuildIsDetached(t *testing.T) {
	b := NewBuilder().AddTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), Red)
	m := b.Build()
	b.AddTriangle(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), Red)

	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Errorf("built mesh changed after further adds: %d vertices", len(m.Vertices))
	}
	if cap(m.Indices) != len(m.Indices) {
		t.Errorf("index buffer not trimmed: len %d cap %d", len(m.Indices), cap(m.Indices))
	}
}

func TestAddFanTooFewPoints(t *testing.T) {
	err := NewBuilder().AddFan(math3d.Zero3(), []math3d.Vec3{math3d.V3(1, 0, 0)}, Red)
	if !errors.Is(err, ErrFanPoints) {
		t.Errorf("got %v, want ErrFanPoints", err)
	}
}

// outward reports whether every triangle normal points away from the origin.
func outward(t *testing.T, m *Mesh) {
	t.Helper()
	for off := 0; off < len(m.Indices); off += 3 {
		a, _, _ := m.Triangle(off)
		if a.Normal.Dot(m.TriangleCenter(off)) <= 0 {
			t.Errorf("triangle %d normal %v points inwards", off/3, a.Normal)
		}
	}
}

func TestCube(t *testing.T) {
	m := Cube(2)

	if got := m.TriangleCount(); got != 12 {
		t.Errorf("triangles = %d, want 12", got)
	}
	if got := m.VertexCount(); got != 24 {
		t.Errorf("vertices = %d, want 24", got)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid cube: %v", err)
	}

	b := m.Bounds()
	if b.Min != math3d.V3(-1, -1, -1) || b.Max != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v, want [-1,1]^3", b)
	}
	outward(t, m)

	faces := []struct {
		name   string
		normal math3d.Vec3
		color  uint32
	}{
		{"front", math3d.V3(0, 0, 1), Red},
		{"right", math3d.V3(1, 0, 0), Green},
		{"left", math3d.V3(-1, 0, 0), Blue},
		{"back", math3d.V3(0, 0, -1), Cyan},
		{"top", math3d.V3(0, 1, 0), LightGray},
		{"bottom", math3d.V3(0, -1, 0), Magenta},
	}
	for i, f := range faces {
		t.Run(f.name, func(t *testing.T) {
			v := m.Vertices[i*4]
			if !v.Normal.ApproxEqual(f.normal, 1e-12) {
				t.Errorf("normal = %v, want %v", v.Normal, f.normal)
			}
			if v.Color != f.color {
				t.Errorf("color = %#x, want %#x", v.Color, f.color)
			}
		})
	}
}

func TestBox(t *testing.T) {
	m := Box(2, 4, 6, Yellow)
	b := m.Bounds()
	if got := b.Size(); got != math3d.V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", got)
	}
	for _, v := range m.Vertices {
		if v.Color != Yellow {
			t.Fatalf("color = %#x, want yellow", v.Color)
		}
	}
	outward(t, m)
}

func TestCylinder(t *testing.T) {
	const n = 16
	m, err := Cylinder(4, 2, n)
	if err != nil {
		t.Fatalf("Cylinder: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid cylinder: %v", err)
	}
	// n tube quads plus two caps of n fan triangles each.
	if got, want := m.TriangleCount(), 4*n; got != want {
		t.Errorf("triangles = %d, want %d", got, want)
	}
	outward(t, m)

	b := m.Bounds()
	if math.Abs(b.Min.X+2) > 1e-9 || math.Abs(b.Max.X-2) > 1e-9 {
		t.Errorf("x extent = [%v, %v], want [-2, 2]", b.Min.X, b.Max.X)
	}
	if b.Max.Y > 1+1e-9 || b.Max.Z > 1+1e-9 {
		t.Errorf("radius exceeded: %v", b.Max)
	}

	// Caps come last: left fan green, right fan red.
	leftCap := 2 * 3 * n
	rightCap := leftCap + 3*n
	if c := m.Vertices[m.Indices[leftCap]].Color; c != Green {
		t.Errorf("left cap color = %#x, want green", c)
	}
	if c := m.Vertices[m.Indices[rightCap]].Color; c != Red {
		t.Errorf("right cap color = %#x, want red", c)
	}
}

func TestCylinderTooFewSubdivisions(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2} {
		if _, err := Cylinder(1, 1, n); !errors.Is(err, ErrSubdivisions) {
			t.Errorf("subdivisions %d: got %v, want ErrSubdivisions", n, err)
		}
	}
}
