package render

import (
	"image/color"

	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/mesh"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// FromARGB converts a packed 0xAARRGGBB mesh color.
func FromARGB(argb uint32) Color {
	a, r, g, b := mesh.Channels(argb)
	return Color{r, g, b, a}
}

// PixelSink receives the pixels of a filled triangle.
type PixelSink interface {
	Width() int
	Height() int
	SetPixel(x, y int, c Color)
}

// Target is everything the mesh renderer draws into: a pixel surface with
// its depth buffer and a line clipper sized to match.
type Target interface {
	PixelSink
	DrawLine(x0, y0, x1, y1 int, c Color)
	ZBuffer() *ZBuffer
	ClipLine(p0, p1 *math3d.Vec3) bool
}
