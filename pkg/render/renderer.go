package render

import (
	"cmp"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/mesh"
	"github.com/taigrr/robosim/pkg/scene"
)

// Settings are the per-frame switches of a Renderer.
type Settings struct {
	BackfaceCulling bool    // Drop triangles facing away from the camera
	DepthSort       bool    // Draw visible triangles farthest first
	FlatShading     bool    // Shade each triangle by its facing
	Fill            bool    // Scanline fill; outlines only when false
	ClipLines       bool    // Clip outline segments to the target
	FrustumCulling  bool    // Skip bodies whose bounds leave the view frustum
	NormalLength    float64 // Length of drawn vertex normals; 0 disables them
	Ambient         float64 // Lower bound of the shading factor

	// Light is the world-space direction towards the light. Nil shades by
	// the angle between surface and view ray.
	Light *math3d.Vec3
}

// DefaultSettings returns culling, depth sort, flat shading, fill and line
// clipping enabled with a 0.15 ambient floor.
func DefaultSettings() Settings {
	return Settings{
		BackfaceCulling: true,
		DepthSort:       true,
		FlatShading:     true,
		Fill:            true,
		ClipLines:       true,
		Ambient:         0.15,
	}
}

// Option changes a Renderer setting.
type Option func(*Renderer)

// BackfaceCulling toggles backface culling.
func BackfaceCulling(on bool) Option { return func(r *Renderer) { r.settings.BackfaceCulling = on } }

// DepthSort toggles back-to-front triangle ordering within a mesh.
func DepthSort(on bool) Option { return func(r *Renderer) { r.settings.DepthSort = on } }

// FlatShading toggles per-triangle shading.
func FlatShading(on bool) Option { return func(r *Renderer) { r.settings.FlatShading = on } }

// Fill toggles scanline filling.
func Fill(on bool) Option { return func(r *Renderer) { r.settings.Fill = on } }

// ClipLines toggles clipping of outline segments.
func ClipLines(on bool) Option { return func(r *Renderer) { r.settings.ClipLines = on } }

// FrustumCulling toggles whole-body rejection against the view frustum.
func FrustumCulling(on bool) Option { return func(r *Renderer) { r.settings.FrustumCulling = on } }

// DrawNormals draws every visible vertex normal with the given length.
func DrawNormals(length float64) Option {
	return func(r *Renderer) { r.settings.NormalLength = max(length, 0) }
}

// Ambient sets the minimum shading factor.
func Ambient(a float64) Option { return func(r *Renderer) { r.settings.Ambient = a } }

// Light shades with a directional light. dir points from the surface
// towards the light.
func Light(dir math3d.Vec3, ambient float64) Option {
	return func(r *Renderer) {
		d := dir.Normalize()
		r.settings.Light = &d
		r.settings.Ambient = ambient
	}
}

// CameraLight shades by the angle to the view ray.
func CameraLight() Option { return func(r *Renderer) { r.settings.Light = nil } }

// Logger sets the logger for per-frame debug output.
func Logger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l == nil {
			l = zap.NewNop()
		}
		r.log = l
	}
}

// FrameStats summarizes one Render call.
type FrameStats struct {
	Bodies       int // Bodies rendered
	BodiesCulled int // Bodies rejected by the frustum test
	Triangles    int // Triangles considered
	Visible      int // Triangles that passed culling and near clipping
	Culled       int // Triangles rejected as backfacing
	NearClipped  int // Triangles crossing the near plane
	Drawn        int // Triangles that reached the target
	Elapsed      time.Duration
}

// Renderer draws scene bodies through a camera. A Renderer is not safe for
// concurrent use.
type Renderer struct {
	cam      *Camera
	settings Settings
	log      *zap.Logger
}

// NewRenderer creates a renderer for cam with DefaultSettings adjusted by opts.
func NewRenderer(cam *Camera, opts ...Option) *Renderer {
	r := &Renderer{
		cam:      cam,
		settings: DefaultSettings(),
		log:      zap.NewNop(),
	}
	r.Apply(opts...)
	return r
}

// Apply changes settings between frames.
func (r *Renderer) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(r)
	}
}

// Settings returns the current settings.
func (r *Renderer) Settings() Settings { return r.settings }

// Camera returns the camera the renderer projects through.
func (r *Renderer) Camera() *Camera { return r.cam }

// bodyPass is a body's working mesh and its sort key.
type bodyPass struct {
	id   scene.BodyID
	mesh *mesh.Mesh
	maxZ float64
}

// Render draws bodies into target. Bodies are ordered by the largest view
// space Z of their bounds, farthest first. Every body mesh is copied, so the
// scene is left untouched. A malformed index buffer aborts the frame.
func (r *Renderer) Render(target Target, sc *scene.Scene, bodies []scene.BodyID) (FrameStats, error) {
	start := time.Now()
	var stats FrameStats

	view := r.cam.ViewMatrix()
	var frustum Frustum
	if r.settings.FrustumCulling {
		frustum = r.cam.Frustum()
	}

	passes := make([]bodyPass, 0, len(bodies))
	for _, id := range bodies {
		if r.settings.FrustumCulling && !frustum.IntersectsBox(sc.Bounds(id).Transform(sc.AbsoluteMatrix(id))) {
			stats.BodiesCulled++
			continue
		}
		bb := sc.Bounds(id).Transform(view.Mul(sc.AbsoluteMatrix(id)))
		passes = append(passes, bodyPass{id: id, mesh: sc.WorldMesh(id), maxZ: bb.Max.Z})
	}

	order := make([]int, len(passes))
	for i := range order {
		order[i] = i
	}
	SortIndices(order, len(order), func(a, b int) int {
		return cmp.Compare(passes[a].maxZ, passes[b].maxZ)
	})

	clipper := NewLineClipper(target.Width(), target.Height())
	for _, i := range order {
		p := passes[i]
		if err := r.renderMesh(target, clipper, sc, p, &stats); err != nil {
			return stats, fmt.Errorf("render body %q: %w", sc.Name(p.id), err)
		}
		stats.Bodies++
	}

	stats.Elapsed = time.Since(start)
	r.log.Debug("frame rendered",
		zap.Int("bodies", stats.Bodies),
		zap.Int("bodies_culled", stats.BodiesCulled),
		zap.Int("triangles", stats.Triangles),
		zap.Int("visible", stats.Visible),
		zap.Int("culled", stats.Culled),
		zap.Int("near_clipped", stats.NearClipped),
		zap.Int("drawn", stats.Drawn),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

// normalLine is a vertex normal ready for drawing.
type normalLine struct {
	from, to math3d.Vec3
	color    Color
}

func (r *Renderer) renderMesh(target Target, clipper *LineClipper, sc *scene.Scene, p bodyPass, stats *FrameStats) error {
	m := p.mesh
	if err := m.Validate(); err != nil {
		return err
	}
	m.Transform(r.cam.ViewMatrix(), r.cam.NormalMatrix())

	near := r.cam.Near()
	var light math3d.Vec3
	if r.settings.Light != nil {
		light = r.cam.ViewMatrix().MulVec3Dir(*r.settings.Light).Normalize()
	}

	// quad triangles share vertices, so shaded colors live per triangle
	colors := make([]uint32, m.TriangleCount())
	visible := make([]int, 0, m.TriangleCount())
	for off := 0; off < len(m.Indices); off += 3 {
		stats.Triangles++
		v0, v1, v2 := m.Triangle(off)

		lit := v0
		if r.settings.BackfaceCulling {
			front := false
			for _, v := range [3]mesh.Vertex{v0, v1, v2} {
				if v.Normal.Dot(v.Position) <= 0 {
					lit, front = v, true
					break
				}
			}
			if !front {
				stats.Culled++
				continue
			}
		}
		if v0.Position.Z > -near || v1.Position.Z > -near || v2.Position.Z > -near {
			stats.NearClipped++
			continue
		}

		colors[off/3] = v0.Color
		if r.settings.FlatShading {
			var facing float64
			if r.settings.Light != nil {
				facing = lit.Normal.Dot(light)
			} else {
				facing = lit.Normal.Dot(lit.Position.Normalize().Negate())
			}
			colors[off/3] = mesh.ShadeARGB(v0.Color, max(r.settings.Ambient, facing))
		}
		visible = append(visible, off)
	}
	stats.Visible += len(visible)

	if r.settings.DepthSort {
		SortIndices(visible, len(visible), func(a, b int) int {
			return cmp.Compare(m.TriangleMinZ(a), m.TriangleMinZ(b))
		})
	}

	proj := r.cam.ProjectionMatrix()
	w, h := target.Width(), target.Height()
	toScreen := func(viewPos math3d.Vec3) math3d.Vec3 {
		x, y := NDCToScreen(proj.MulVec3(viewPos), w, h)
		return math3d.V3(x, y, viewPos.Z)
	}

	var normals []normalLine
	if r.settings.NormalLength > 0 {
		normals = make([]normalLine, 0, len(visible)*3)
		for _, off := range visible {
			for j := range 3 {
				v := m.Vertices[m.Indices[off+j]]
				end := v.Position.Add(v.Normal.Scale(r.settings.NormalLength))
				if end.Z > -near {
					continue
				}
				normals = append(normals, normalLine{
					from:  toScreen(v.Position),
					to:    toScreen(end),
					color: FromARGB(colors[off/3]),
				})
			}
		}
	}

	// screen Z keeps the view-space depth so that nearer is larger
	depth := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		depth[i] = v.Position.Z
	}
	m.TransformPerspectiveNDC(proj)
	screen := func(idx int) math3d.Vec3 {
		x, y := NDCToScreen(m.Vertices[idx].Position, w, h)
		return math3d.V3(x, y, depth[idx])
	}

	zb := target.ZBuffer()
	fill := r.settings.Fill && zb != nil
	outline, hasOutline := sc.OutlineColor(p.id)
	for _, off := range visible {
		s0 := screen(m.Indices[off])
		s1 := screen(m.Indices[off+1])
		s2 := screen(m.Indices[off+2])
		c := FromARGB(colors[off/3])

		if fill {
			code0 := clipper.Outcode(s0.X, s0.Y)
			code1 := clipper.Outcode(s1.X, s1.Y)
			code2 := clipper.Outcode(s2.X, s2.Y)
			if code0&code1&code2 != 0 {
				continue
			}
			FillTriangle(s0, s1, s2, c, target, zb)
		} else {
			r.drawEdges(target, s0, s1, s2, c)
		}
		if hasOutline {
			r.drawEdges(target, s0, s1, s2, FromARGB(outline))
		}
		stats.Drawn++
	}

	for _, n := range normals {
		r.drawSegment(target, n.from, n.to, n.color)
	}
	return nil
}

func (r *Renderer) drawEdges(target Target, p0, p1, p2 math3d.Vec3, c Color) {
	r.drawSegment(target, p0, p1, c)
	r.drawSegment(target, p1, p2, c)
	r.drawSegment(target, p2, p0, c)
}

func (r *Renderer) drawSegment(target Target, a, b math3d.Vec3, c Color) {
	if r.settings.ClipLines && !target.ClipLine(&a, &b) {
		return
	}
	target.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
}
