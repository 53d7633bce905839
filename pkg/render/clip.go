package render

import "github.com/taigrr/robosim/pkg/math3d"

// Outcode bits of the Cohen-Sutherland regions.
const (
	OutInside = 0
	OutLeft   = 1 << 0
	OutRight  = 1 << 1
	OutBottom = 1 << 2
	OutTop    = 1 << 3
)

// LineClipper clips 2D segments against the rectangle [0, xmax] x [0, ymax].
type LineClipper struct {
	xmax, ymax float64
}

// NewLineClipper creates a clipper for a width x height raster. The clip
// rectangle covers pixel centers 0..width-1 and 0..height-1.
func NewLineClipper(width, height int) *LineClipper {
	c := &LineClipper{}
	c.SetViewport(width, height)
	return c
}

// SetViewport resizes the clip rectangle for a width x height raster. The far
// edges sit on the last pixel, width-1 and height-1, not on width and height,
// so a clipped endpoint always indexes a pixel of the raster.
func (c *LineClipper) SetViewport(width, height int) {
	c.xmax = float64(width - 1)
	c.ymax = float64(height - 1)
}

// Outcode classifies (x, y) against the clip rectangle.
func (c *LineClipper) Outcode(x, y float64) int {
	code := OutInside
	if x < 0 {
		code |= OutLeft
	} else if x > c.xmax {
		code |= OutRight
	}
	if y < 0 {
		code |= OutBottom
	} else if y > c.ymax {
		code |= OutTop
	}
	return code
}

// Clip shortens the segment p0-p1 to the part inside the clip rectangle and
// writes the clipped endpoints back. Z is interpolated along the segment.
// It returns false, leaving the points in an unspecified state, when nothing
// of the segment is visible.
func (c *LineClipper) Clip(p0, p1 *math3d.Vec3) bool {
	out0 := c.Outcode(p0.X, p0.Y)
	out1 := c.Outcode(p1.X, p1.Y)

	for {
		switch {
		case out0|out1 == 0:
			return true
		case out0&out1 != 0:
			return false
		}

		// at least one endpoint is outside; the larger code is always one of them
		out := max(out0, out1)
		a, b := *p0, *p1

		var t float64
		switch {
		case out&OutTop != 0:
			t = (c.ymax - a.Y) / (b.Y - a.Y)
		case out&OutBottom != 0:
			t = -a.Y / (b.Y - a.Y)
		case out&OutRight != 0:
			t = (c.xmax - a.X) / (b.X - a.X)
		default:
			t = -a.X / (b.X - a.X)
		}
		p := a.Lerp(b, t)
		// snap onto the edge so rounding cannot leave the point outside
		switch {
		case out&OutTop != 0:
			p.Y = c.ymax
		case out&OutBottom != 0:
			p.Y = 0
		case out&OutRight != 0:
			p.X = c.xmax
		default:
			p.X = 0
		}

		if out == out0 {
			*p0 = p
			out0 = c.Outcode(p.X, p.Y)
		} else {
			*p1 = p
			out1 = c.Outcode(p.X, p.Y)
		}
	}
}
