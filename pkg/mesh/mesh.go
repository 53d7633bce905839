// Package mesh provides indexed triangle meshes, the primitive builders and
// the bounding boxes used by the scene graph and the renderer.
package mesh

import (
	"errors"
	"fmt"

	"github.com/taigrr/robosim/pkg/math3d"
)

var (
	// ErrMalformedIndices is returned when an index buffer length is not a multiple of 3.
	ErrMalformedIndices = errors.New("index count is not a multiple of 3")
	// ErrIndexOutOfRange is returned when an index does not address a vertex.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNilMesh is returned when a nil mesh is passed where one is required.
	ErrNilMesh = errors.New("nil mesh")
	// ErrMergeCount is returned when fewer than two meshes are merged.
	ErrMergeCount = errors.New("merge needs at least two meshes")
)

// Vertex holds the per-vertex attributes: position, normal and packed ARGB color.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    uint32
}

// Mesh is an indexed triangle list. Every three consecutive indices form one
// counter-clockwise triangle.
type Mesh struct {
	Vertices []Vertex
	Indices  []int
}

// New creates a mesh and validates its index buffer.
func New(vertices []Vertex, indices []int) (*Mesh, error) {
	m := &Mesh{Vertices: vertices, Indices: indices}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that the index buffer describes whole triangles and only
// addresses existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices: %w", len(m.Indices), ErrMalformedIndices)
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("index %d = %d with %d vertices: %w", i, idx, len(m.Vertices), ErrIndexOutOfRange)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of whole triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]int, len(m.Indices)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}

// Merge concatenates meshes into a new one. Indices of every mesh after the
// first are shifted by the number of vertices that precede it.
func Merge(meshes ...*Mesh) (*Mesh, error) {
	if len(meshes) < 2 {
		return nil, fmt.Errorf("merge %d meshes: %w", len(meshes), ErrMergeCount)
	}

	var nv, ni int
	for i, m := range meshes {
		if m == nil {
			return nil, fmt.Errorf("merge mesh %d: %w", i, ErrNilMesh)
		}
		nv += len(m.Vertices)
		ni += len(m.Indices)
	}

	out := &Mesh{
		Vertices: make([]Vertex, 0, nv),
		Indices:  make([]int, 0, ni),
	}
	for _, m := range meshes {
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out, nil
}

// Transform moves positions by mat and normals by normalMat, then
// renormalizes the normals. normalMat is normally mat.InverseTranspose().
func (m *Mesh) Transform(mat, normalMat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		v.Normal = normalMat.MulVec3Dir(v.Normal).Normalize()
	}
}

// TransformPerspectiveNDC projects every position with proj and divides by w.
func (m *Mesh) TransformPerspectiveNDC(proj math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = proj.MulVec4(math3d.V4FromV3(v.Position, 1)).PerspectiveDivide()
	}
}

// Triangle returns the three vertices of the triangle starting at index offset.
func (m *Mesh) Triangle(offset int) (a, b, c Vertex) {
	return m.Vertices[m.Indices[offset]],
		m.Vertices[m.Indices[offset+1]],
		m.Vertices[m.Indices[offset+2]]
}

// TrianglePositions returns the positions of the triangle at offset.
func (m *Mesh) TrianglePositions(offset int) (a, b, c math3d.Vec3) {
	va, vb, vc := m.Triangle(offset)
	return va.Position, vb.Position, vc.Position
}

// TriangleMinZ returns the smallest Z of the triangle at offset.
func (m *Mesh) TriangleMinZ(offset int) float64 {
	a, b, c := m.TrianglePositions(offset)
	return min(a.Z, b.Z, c.Z)
}

// TriangleAverageZ returns the mean Z of the triangle at offset.
func (m *Mesh) TriangleAverageZ(offset int) float64 {
	a, b, c := m.TrianglePositions(offset)
	return (a.Z + b.Z + c.Z) / 3
}

// TriangleCenter returns the centroid of the triangle at offset.
func (m *Mesh) TriangleCenter(offset int) math3d.Vec3 {
	a, b, c := m.TrianglePositions(offset)
	return a.Add(b).Add(c).Scale(1.0 / 3)
}

// SetTriangleColor recolors the three vertices of the triangle at offset.
// Shared vertices are recolored for every triangle that uses them.
func (m *Mesh) SetTriangleColor(offset int, argb uint32) {
	m.Vertices[m.Indices[offset]].Color = argb
	m.Vertices[m.Indices[offset+1]].Color = argb
	m.Vertices[m.Indices[offset+2]].Color = argb
}

// Bounds returns the axis-aligned box around all vertices.
func (m *Mesh) Bounds() BoundingBox {
	if len(m.Vertices) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		b.Min = b.Min.Min(v.Position)
		b.Max = b.Max.Max(v.Position)
	}
	return b
}

// CalculateSmoothNormals replaces every vertex normal with the normalized sum
// of the facet normals of the triangles sharing it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for off := 0; off+2 < len(m.Indices); off += 3 {
		i0, i1, i2 := m.Indices[off], m.Indices[off+1], m.Indices[off+2]
		p0 := m.Vertices[i0].Position
		n := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))

		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(n)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(n)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(n)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}
