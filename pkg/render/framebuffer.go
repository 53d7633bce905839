// Package render turns a scene graph into pixels: camera, depth buffer,
// line clipping, scanline triangle fill and the per-frame mesh renderer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/robosim/pkg/math3d"
)

// Framebuffer is a row-major RGBA surface with its own depth buffer and line
// clipper. It satisfies Target for the mesh renderer and draw.Image for text
// overlays.
type Framebuffer struct {
	width  int
	height int
	pixels []Color
	depth  *ZBuffer
	clip   *LineClipper
}

// NewFramebuffer creates a framebuffer with the given dimensions.
// For half-block terminal output the height should be 2x the terminal rows.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]Color, width*height),
		depth:  NewZBuffer(width, height),
		clip:   NewLineClipper(width, height),
	}
}

// Width returns the width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// ZBuffer returns the depth buffer paired with this surface.
func (fb *Framebuffer) ZBuffer() *ZBuffer { return fb.depth }

// ClipLine clips a screen-space segment to the surface.
func (fb *Framebuffer) ClipLine(p0, p1 *math3d.Vec3) bool {
	return fb.clip.Clip(p0, p1)
}

// Resize changes the dimensions. Pixel contents are discarded when the size
// changes.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width, fb.height = width, height
	fb.pixels = make([]Color, width*height)
	fb.depth.Resize(width, height)
	fb.clip.SetViewport(width, height)
}

// BeginFrame fills the surface with bg and resets the depth buffer.
func (fb *Framebuffer) BeginFrame(bg Color) {
	fb.Clear(bg)
	fb.depth.Clear()
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.pixels {
		fb.pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.pixels[y*fb.width+x] = c
}

// SetPixelARGB sets a pixel from a packed 0xAARRGGBB color.
func (fb *Framebuffer) SetPixelARGB(x, y int, argb uint32) {
	fb.SetPixel(x, y, FromARGB(argb))
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return Color{}
	}
	return fb.pixels[y*fb.width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ColorModel implements draw.Image.
func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements draw.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements draw.Image.
func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

// Set implements draw.Image. Translucent colors are blended over the
// existing pixel so anti-aliased glyphs keep their edges.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return
	}
	if a == 0xffff {
		fb.SetPixel(x, y, Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255})
		return
	}
	dst := fb.GetPixel(x, y)
	inv := 0xffff - a
	blend := func(src uint32, d uint8) uint8 {
		return uint8((src + uint32(d)*0x101*inv/0xffff) >> 8)
	}
	fb.SetPixel(x, y, Color{blend(r, dst.R), blend(g, dst.G), blend(b, dst.B), 255})
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			img.SetRGBA(x, y, fb.pixels[y*fb.width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
