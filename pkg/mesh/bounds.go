package mesh

import "github.com/taigrr/robosim/pkg/math3d"

// BoundingBox is an axis-aligned box. Operations return new boxes and never
// modify the receiver.
type BoundingBox struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewBoundingBox creates the box spanned by two opposite corners given in any order.
func NewBoundingBox(a, b math3d.Vec3) BoundingBox {
	return BoundingBox{Min: a.Min(b), Max: a.Max(b)}
}

// Merge returns the smallest box containing both boxes.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	return BoundingBox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// CenterZ returns the Z coordinate of the midpoint.
func (b BoundingBox) CenterZ() float64 {
	return (b.Min.Z + b.Max.Z) / 2
}

// Size returns the extent along each axis.
func (b BoundingBox) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Width is the extent along X.
func (b BoundingBox) Width() float64 { return b.Max.X - b.Min.X }

// Height is the extent along Y.
func (b BoundingBox) Height() float64 { return b.Max.Y - b.Min.Y }

// Depth is the extent along Z.
func (b BoundingBox) Depth() float64 { return b.Max.Z - b.Min.Z }

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the axis-aligned box around the eight transformed corners.
func (b BoundingBox) Transform(m math3d.Mat4) BoundingBox {
	corners := b.Corners()
	p := m.MulVec3(corners[0])
	out := BoundingBox{Min: p, Max: p}
	for _, c := range corners[1:] {
		p = m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside or on the box.
func (b BoundingBox) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
