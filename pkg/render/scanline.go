package render

import (
	"math"

	"github.com/taigrr/robosim/pkg/math3d"
)

// verticalEpsilon is the |dx| below which an edge is treated as vertical.
const verticalEpsilon = 1e-4

// edge is a triangle side walked from its upper end a to its lower end b.
type edge struct {
	a, b math3d.Vec3
}

// at returns the X and Z of the edge on scanline y. Rows outside the edge's
// span clamp to the nearest endpoint.
func (e edge) at(y float64) (x, z float64) {
	dy := e.b.Y - e.a.Y
	if dy == 0 {
		return e.a.X, e.a.Z
	}
	dy0 := min(max(y, e.a.Y), e.b.Y) - e.a.Y
	z = e.a.Z + (e.b.Z-e.a.Z)*dy0/dy
	if math.Abs(e.b.X-e.a.X) < verticalEpsilon {
		return math.Min(e.a.X, e.b.X), z
	}
	return e.a.X + (e.b.X-e.a.X)*dy0/dy, z
}

// pixel returns the row or column containing coordinate v. Coordinates in
// (-1, 0) belong to column -1, not column 0.
func pixel(v float64) int {
	return int(math.Floor(v))
}

// FillTriangle rasterizes a screen-space triangle with a depth test. X and Y
// are pixel coordinates, Z is a depth where larger values are nearer. A pixel
// is written, and its depth stored, only when the new depth is strictly
// greater than the stored one. Pixels outside the sink are skipped.
func FillTriangle(p0, p1, p2 math3d.Vec3, c Color, dst PixelSink, zb *ZBuffer) {
	// sort by ascending Y
	if p1.Y < p0.Y {
		p0, p1 = p1, p0
	}
	if p2.Y < p0.Y {
		p0, p2 = p2, p0
	}
	if p2.Y < p1.Y {
		p1, p2 = p2, p1
	}

	switch y0, y1, y2 := pixel(p0.Y), pixel(p1.Y), pixel(p2.Y); {
	case y0 == y2:
		// all three on one scanline
		fillFlat(p0, p1, p2, c, dst, zb)
	case y0 == y1:
		fillSpans(edge{p0, p2}, edge{p1, p2}, c, dst, zb)
	case y1 == y2:
		fillSpans(edge{p0, p1}, edge{p0, p2}, c, dst, zb)
	default:
		// split at p1.Y into an upper and a lower part
		long := edge{p0, p2}
		x3, z3 := long.at(p1.Y)
		p3 := math3d.V3(x3, p1.Y, z3)
		fillSpans(edge{p0, p3}, edge{p0, p1}, c, dst, zb)
		fillSpans(edge{p3, p2}, edge{p1, p2}, c, dst, zb)
	}
}

// fillSpans fills every scanline between two edges sharing a Y range.
func fillSpans(l1, l2 edge, c Color, dst PixelSink, zb *ZBuffer) {
	minY := pixel(min(l1.a.Y, l2.a.Y))
	maxY := pixel(max(l1.b.Y, l2.b.Y))

	for y := max(minY, 0); y <= min(maxY, dst.Height()-1); y++ {
		fy := float64(y)
		lx, lz := l1.at(fy)
		rx, rz := l2.at(fy)
		span(pixel(lx), lz, pixel(rx), rz, y, c, dst, zb)
	}
}

// fillFlat draws a triangle whose vertices all fall on one scanline.
func fillFlat(p0, p1, p2 math3d.Vec3, c Color, dst PixelSink, zb *ZBuffer) {
	lo, hi := p0, p0
	for _, p := range [2]math3d.Vec3{p1, p2} {
		if p.X < lo.X {
			lo = p
		}
		if p.X > hi.X {
			hi = p
		}
	}
	y := pixel(p0.Y)
	if y < 0 || y >= dst.Height() {
		return
	}
	span(pixel(lo.X), lo.Z, pixel(hi.X), hi.Z, y, c, dst, zb)
}

// span fills columns x0..x1 inclusive on row y, interpolating Z linearly.
func span(x0 int, z0 float64, x1 int, z1 float64, y int, c Color, dst PixelSink, zb *ZBuffer) {
	if x0 > x1 {
		x0, x1 = x1, x0
		z0, z1 = z1, z0
	}
	var step float64
	if x1 != x0 {
		step = (z1 - z0) / float64(x1-x0)
	}

	start := max(x0, 0)
	end := min(x1, dst.Width()-1)
	z := z0 + step*float64(start-x0)
	for x := start; x <= end; x++ {
		if zb.Get(x, y) < z {
			zb.Set(x, y, z)
			dst.SetPixel(x, y, c)
		}
		z += step
	}
}
