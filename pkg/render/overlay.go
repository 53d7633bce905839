package render

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/robosim/pkg/math3d"
)

// Overlay draws diagnostic text on top of a rendered frame.
type Overlay struct {
	face  font.Face
	color Color
}

// NewOverlay loads the Go Regular face at size points.
func NewOverlay(size float64) (*Overlay, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse overlay font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create overlay face: %w", err)
	}
	return &Overlay{face: face, color: RGB(255, 255, 255)}, nil
}

// SetColor changes the text color.
func (o *Overlay) SetColor(c Color) { o.color = c }

// LineHeight returns the distance between baselines in pixels.
func (o *Overlay) LineHeight() int {
	return o.face.Metrics().Height.Ceil()
}

// DrawLines draws lines top to bottom with the first baseline at (x, y).
func (o *Overlay) DrawLines(fb *Framebuffer, lines []string, x, y int) {
	d := &font.Drawer{
		Dst:  fb,
		Src:  image.NewUniform(o.color),
		Face: o.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(x, y+i*o.LineHeight())
		d.DrawString(line)
	}
}

// Close releases the font face.
func (o *Overlay) Close() error {
	return o.face.Close()
}

// CameraLines formats the camera position, its look-at point and frame
// statistics.
func CameraLines(cam *Camera, stats FrameStats) []string {
	return []string{
		"Camera @ " + formatVec(cam.Position()),
		"Look @ " + formatVec(cam.Target()),
		fmt.Sprintf("%d/%d triangles in %s", stats.Drawn, stats.Triangles, stats.Elapsed.Round(10*time.Microsecond)),
	}
}

func formatVec(v math3d.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
