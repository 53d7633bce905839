package render

import (
	"math"

	"github.com/taigrr/robosim/pkg/math3d"
)

// maxPitch keeps the view direction off the world up axis.
const maxPitch = math.Pi/2 - 0.01

// Camera is a perspective camera described by a position and yaw/pitch
// angles. Derived matrices are cached; setters mark them stale and the
// getters recompute on demand, so Update is only needed to pay the cost
// up front.
type Camera struct {
	position math3d.Vec3
	pitch    float64 // around X, positive looks up
	yaw      float64 // around Y, positive turns left

	fov    float64 // vertical, radians
	aspect float64
	near   float64
	far    float64

	view        math3d.Mat4
	inverseView math3d.Mat4
	normal      math3d.Mat4
	proj        math3d.Mat4
	viewProj    math3d.Mat4
	viewDirty   bool
	projDirty   bool
}

// NewCamera creates a camera at the origin looking down -Z with a 70 degree
// field of view, 16:9 aspect and clip planes at 0.1 and 1000.
func NewCamera() *Camera {
	return &Camera{
		fov:       70 * math.Pi / 180,
		aspect:    16.0 / 9.0,
		near:      0.1,
		far:       1000,
		viewDirty: true,
		projDirty: true,
	}
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Yaw returns the rotation around the world Y axis.
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch returns the rotation around the camera X axis.
func (c *Camera) Pitch() float64 { return c.pitch }

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float64 { return c.fov }

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float64 { return c.aspect }

// Near returns the near clip distance.
func (c *Camera) Near() float64 { return c.near }

// Far returns the far clip distance.
func (c *Camera) Far() float64 { return c.far }

// SetPosition moves the camera without changing its orientation.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
	c.viewDirty = true
}

// Translate moves the camera by delta; the look target moves with it.
func (c *Camera) Translate(delta math3d.Vec3) {
	c.SetPosition(c.position.Add(delta))
}

// SetYaw sets the rotation around the world Y axis.
func (c *Camera) SetYaw(yaw float64) {
	c.yaw = yaw
	c.viewDirty = true
}

// SetPitch sets the up/down angle, clamped just short of straight up or down.
func (c *Camera) SetPitch(pitch float64) {
	c.pitch = clampPitch(pitch)
	c.viewDirty = true
}

// Rotate adds to pitch and yaw.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.pitch = clampPitch(c.pitch + deltaPitch)
	c.yaw += deltaYaw
	c.viewDirty = true
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.position).Normalize()
	if dir == math3d.Zero3() {
		return
	}
	c.pitch = clampPitch(math.Asin(dir.Y))
	c.yaw = math.Atan2(-dir.X, -dir.Z)
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.projDirty = true
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.aspect = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.near = near
	c.far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.yaw)*math.Cos(c.pitch),
		math.Sin(c.pitch),
		-math.Cos(c.yaw)*math.Cos(c.pitch),
	)
}

// Right returns the horizontal unit vector to the right of the view direction.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.yaw), 0, -math.Sin(c.yaw))
}

// Up returns the camera up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Target returns the point one unit ahead of the camera.
func (c *Camera) Target() math3d.Vec3 {
	return c.position.Add(c.Forward())
}

// MoveForward moves along the view direction (backwards if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Translate(c.Forward().Scale(distance))
}

// MoveRight strafes (left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Translate(c.Right().Scale(distance))
}

// MoveUp moves along the world up axis (down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Translate(math3d.Up().Scale(distance))
}

// Update recomputes every derived matrix that is stale.
func (c *Camera) Update() {
	if c.viewDirty {
		// inverse orientation, then move the world opposite to the camera
		rot := math3d.RotateX(-c.pitch).Mul(math3d.RotateY(-c.yaw))
		c.view = rot.Mul(math3d.Translate(c.position.Negate()))
		c.inverseView = c.view.Inverse()
		c.normal = c.inverseView.Transpose()
	}
	if c.projDirty {
		c.proj = math3d.Perspective(c.fov, c.aspect, c.near, c.far)
	}
	if c.viewDirty || c.projDirty {
		c.viewProj = c.proj.Mul(c.view)
	}
	c.viewDirty = false
	c.projDirty = false
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.Update()
	return c.view
}

// InverseViewMatrix returns the view-to-world matrix.
func (c *Camera) InverseViewMatrix() math3d.Mat4 {
	c.Update()
	return c.inverseView
}

// NormalMatrix returns transpose(inverse(view)), which carries world-space
// normals into view space.
func (c *Camera) NormalMatrix() math3d.Mat4 {
	c.Update()
	return c.normal
}

// ProjectionMatrix returns the view-to-clip matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.Update()
	return c.proj
}

// ViewProjectionMatrix returns projection · view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.Update()
	return c.viewProj
}

// Frustum returns the world-space view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// WorldToScreen projects a world point onto a width x height raster.
// visible is false for points behind the camera or outside the frustum.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	x, y = NDCToScreen(ndc, width, height)
	return x, y, ndc.Z, true
}

// NDCToScreen maps normalized device coordinates to raster coordinates with
// y growing downwards: px = w/2 + x*w/2, py = h/2 - y*h/2.
func NDCToScreen(ndc math3d.Vec3, width, height int) (x, y float64) {
	hw, hh := float64(width)/2, float64(height)/2
	return hw + ndc.X*hw, hh - ndc.Y*hh
}
