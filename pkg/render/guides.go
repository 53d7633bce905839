package render

import (
	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/mesh"
)

// Guides draws world-space reference lines: ground grid, axes and boxes.
// Lines are not depth tested, so draw them before the bodies to keep them
// underneath.
type Guides struct {
	cam *Camera
}

// NewGuides creates a guide drawer projecting through cam.
func NewGuides(cam *Camera) *Guides {
	return &Guides{cam: cam}
}

// Line draws a world-space segment. The part behind the near plane is cut
// off before projection and the rest is clipped to the target.
func (g *Guides) Line(target Target, p1, p2 math3d.Vec3, c Color) bool {
	view := g.cam.ViewMatrix()
	a, b := view.MulVec3(p1), view.MulVec3(p2)

	near := -g.cam.Near()
	if a.Z > near && b.Z > near {
		return false
	}
	if a.Z > near {
		a = a.Lerp(b, (near-a.Z)/(b.Z-a.Z))
	} else if b.Z > near {
		b = b.Lerp(a, (near-b.Z)/(a.Z-b.Z))
	}

	proj := g.cam.ProjectionMatrix()
	w, h := target.Width(), target.Height()
	ax, ay := NDCToScreen(proj.MulVec3(a), w, h)
	bx, by := NDCToScreen(proj.MulVec3(b), w, h)
	s0, s1 := math3d.V3(ax, ay, a.Z), math3d.V3(bx, by, b.Z)
	if !target.ClipLine(&s0, &s1) {
		return false
	}
	target.DrawLine(int(s0.X), int(s0.Y), int(s1.X), int(s1.Y), c)
	return true
}

// Grid draws a size x size grid on the XZ plane at y with lines every step.
func (g *Guides) Grid(target Target, size, step, y float64, c Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		g.Line(target, math3d.V3(x, y, -half), math3d.V3(x, y, half), c)
	}
	for z := -half; z <= half; z += step {
		g.Line(target, math3d.V3(-half, y, z), math3d.V3(half, y, z), c)
	}
}

// Axes draws X red, Y green and Z blue from the origin.
func (g *Guides) Axes(target Target, length float64) {
	origin := math3d.Zero3()
	g.Line(target, origin, math3d.V3(length, 0, 0), FromARGB(mesh.Red))
	g.Line(target, origin, math3d.V3(0, length, 0), FromARGB(mesh.Green))
	g.Line(target, origin, math3d.V3(0, 0, length), FromARGB(mesh.Blue))
}

// boxEdges index the corners returned by BoundingBox.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Box draws the edges of a local bounding box placed by transform.
func (g *Guides) Box(target Target, bb mesh.BoundingBox, transform math3d.Mat4, c Color) {
	corners := bb.Corners()
	for i, p := range corners {
		corners[i] = transform.MulVec3(p)
	}
	for _, e := range boxEdges {
		g.Line(target, corners[e[0]], corners[e[1]], c)
	}
}
