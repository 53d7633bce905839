package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/robosim/pkg/math3d"
)

var (
	// ErrSubdivisions is returned when a cylinder has fewer than 3 segments.
	ErrSubdivisions = errors.New("cylinder needs at least 3 subdivisions")
	// ErrFanPoints is returned when a triangle fan has fewer than 2 rim points.
	ErrFanPoints = errors.New("triangle fan needs at least 2 points")
)

// Builder accumulates triangles into a mesh. Every added triangle or quad gets
// its own vertices, stamped with the facet normal, so flat shading stays crisp
// across edges.
type Builder struct {
	vertices []Vertex
	indices  []int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		vertices: make([]Vertex, 0, 3),
		indices:  make([]int, 0, 3),
	}
}

// facetNormal returns normalize((p1-p0) × (p2-p0)) for counter-clockwise
// winding. Degenerate triangles get a zero normal.
func facetNormal(p0, p1, p2 math3d.Vec3) math3d.Vec3 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func (b *Builder) addVertex(p, n math3d.Vec3, argb uint32) int {
	b.vertices = append(b.vertices, Vertex{Position: p, Normal: n, Color: argb})
	return len(b.vertices) - 1
}

// AddTriangle adds one counter-clockwise triangle.
func (b *Builder) AddTriangle(p0, p1, p2 math3d.Vec3, argb uint32) *Builder {
	n := facetNormal(p0, p1, p2)
	i0 := b.addVertex(p0, n, argb)
	i1 := b.addVertex(p1, n, argb)
	i2 := b.addVertex(p2, n, argb)
	b.indices = append(b.indices, i0, i1, i2)
	return b
}

// AddQuad adds a counter-clockwise quad as the triangles (p0, p1, p2) and
// (p3, p0, p2). All four vertices share the normal of the first triangle.
func (b *Builder) AddQuad(p0, p1, p2, p3 math3d.Vec3, argb uint32) *Builder {
	n := facetNormal(p0, p1, p2)
	i0 := b.addVertex(p0, n, argb)
	i1 := b.addVertex(p1, n, argb)
	i2 := b.addVertex(p2, n, argb)
	i3 := b.addVertex(p3, n, argb)
	b.indices = append(b.indices, i0, i1, i2, i3, i0, i2)
	return b
}

// AddFan adds a closed triangle fan around center: (center, rim[i-1], rim[i])
// for every consecutive pair plus (center, rim[last], rim[0]).
func (b *Builder) AddFan(center math3d.Vec3, rim []math3d.Vec3, argb uint32) error {
	if len(rim) < 2 {
		return fmt.Errorf("fan with %d points: %w", len(rim), ErrFanPoints)
	}
	for i := 1; i < len(rim); i++ {
		b.AddTriangle(center, rim[i-1], rim[i], argb)
	}
	b.AddTriangle(center, rim[len(rim)-1], rim[0], argb)
	return nil
}

// Build returns a mesh holding exact-length copies of the accumulated data.
// The builder can keep adding afterwards without affecting the result.
func (b *Builder) Build() *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, len(b.vertices)),
		Indices:  make([]int, len(b.indices)),
	}
	copy(m.Vertices, b.vertices)
	copy(m.Indices, b.indices)
	return m
}

// Cube creates an axis-aligned cube centered on the origin with outward
// facing normals. Faces are colored front red, right green, left blue, back
// cyan, top light gray and bottom magenta.
func Cube(dimension float64) *Mesh {
	return box(dimension, dimension, dimension, [6]uint32{Red, Green, Blue, Cyan, LightGray, Magenta})
}

// Box creates an axis-aligned box centered on the origin in a single color.
func Box(width, height, depth float64, argb uint32) *Mesh {
	return box(width, height, depth, [6]uint32{argb, argb, argb, argb, argb, argb})
}

func box(width, height, depth float64, colors [6]uint32) *Mesh {
	xMin, xMax := -width/2, width/2
	yMin, yMax := -height/2, height/2
	zMin, zMax := -depth/2, depth/2

	// front
	p0 := math3d.V3(xMin, yMax, zMax)
	p1 := math3d.V3(xMin, yMin, zMax)
	p2 := math3d.V3(xMax, yMin, zMax)
	p3 := math3d.V3(xMax, yMax, zMax)
	// back
	p4 := math3d.V3(xMax, yMax, zMin)
	p5 := math3d.V3(xMax, yMin, zMin)
	p6 := math3d.V3(xMin, yMin, zMin)
	p7 := math3d.V3(xMin, yMax, zMin)

	return NewBuilder().
		AddQuad(p0, p1, p2, p3, colors[0]).
		AddQuad(p3, p2, p5, p4, colors[1]).
		AddQuad(p7, p6, p1, p0, colors[2]).
		AddQuad(p4, p5, p6, p7, colors[3]).
		AddQuad(p7, p0, p3, p4, colors[4]).
		AddQuad(p1, p6, p5, p2, colors[5]).
		Build()
}

// Cylinder creates a closed cylinder centered on the origin with its axis on X.
// The tube alternates gray and light gray, the -X cap is green and the +X cap
// is red.
func Cylinder(length, diameter float64, subdivisions int) (*Mesh, error) {
	if subdivisions < 3 {
		return nil, fmt.Errorf("cylinder with %d subdivisions: %w", subdivisions, ErrSubdivisions)
	}

	xMin, xMax := -length/2, length/2
	radius := diameter / 2
	step := 2 * math.Pi / float64(subdivisions)
	tube := [2]uint32{Gray, LightGray}

	left := make([]math3d.Vec3, subdivisions)
	right := make([]math3d.Vec3, subdivisions)

	b := NewBuilder()
	for i := range subdivisions {
		a0 := float64(i) * step
		a1 := float64(i+1) * step
		y0, z0 := radius*math.Sin(a0), radius*math.Cos(a0)
		y1, z1 := radius*math.Sin(a1), radius*math.Cos(a1)

		b.AddQuad(
			math3d.V3(xMax, y0, z0),
			math3d.V3(xMax, y1, z1),
			math3d.V3(xMin, y1, z1),
			math3d.V3(xMin, y0, z0),
			tube[i%len(tube)],
		)

		// The +X cap runs the other way round so both caps face outwards.
		left[i] = math3d.V3(xMin, y0, z0)
		right[i] = math3d.V3(xMax, radius*math.Sin(2*math.Pi-a0), radius*math.Cos(2*math.Pi-a0))
	}

	if err := b.AddFan(math3d.V3(xMin, 0, 0), left, Green); err != nil {
		return nil, err
	}
	if err := b.AddFan(math3d.V3(xMax, 0, 0), right, Red); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
