package render

import "math"

// ZBuffer stores one depth per pixel. Larger values are nearer to the viewer,
// so a cleared buffer holds -Inf and every finite depth passes the first test.
type ZBuffer struct {
	width  int
	height int
	depth  []float64
}

// NewZBuffer creates a cleared depth buffer.
func NewZBuffer(width, height int) *ZBuffer {
	z := &ZBuffer{}
	z.Resize(width, height)
	return z
}

// Width returns the buffer width in pixels.
func (z *ZBuffer) Width() int { return z.width }

// Height returns the buffer height in pixels.
func (z *ZBuffer) Height() int { return z.height }

// Resize reallocates the buffer when the dimensions change and clears it.
func (z *ZBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width != z.width || height != z.height || z.depth == nil {
		z.width, z.height = width, height
		z.depth = make([]float64, width*height)
	}
	z.Clear()
}

// Clear resets every entry to -Inf.
func (z *ZBuffer) Clear() {
	n := len(z.depth)
	if n == 0 {
		return
	}
	// copy-doubling beats a per-element loop on large buffers
	z.depth[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(z.depth[i:], z.depth[:i])
	}
}

// Get returns the stored depth, or -Inf outside the buffer.
func (z *ZBuffer) Get(x, y int) float64 {
	if x < 0 || x >= z.width || y < 0 || y >= z.height {
		return math.Inf(-1)
	}
	return z.depth[y*z.width+x]
}

// Set stores a depth; coordinates outside the buffer are ignored.
func (z *ZBuffer) Set(x, y int, d float64) {
	if x < 0 || x >= z.width || y < 0 || y >= z.height {
		return
	}
	z.depth[y*z.width+x] = d
}
