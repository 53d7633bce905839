// Package scene implements the body hierarchy: rigid bodies carrying meshes,
// arranged in a tree where every body is positioned relative to its parent.
//
// Bodies live in an arena owned by Scene and are addressed by BodyID. Methods
// taking a BodyID expect an ID returned by NewBody on the same scene; query
// methods panic on foreign IDs the way an out-of-range slice index does,
// while structural mutations return ErrInvalidBody.
package scene

import (
	"fmt"

	"github.com/taigrr/robosim/pkg/math3d"
	"github.com/taigrr/robosim/pkg/mesh"
)

// BodyID addresses a body inside its Scene.
type BodyID int

// NoBody is the parent of a root body.
const NoBody BodyID = -1

type body struct {
	name   string
	mesh   *mesh.Mesh
	bounds mesh.BoundingBox

	position math3d.Vec3
	rotation math3d.Vec3 // Euler angles in radians, applied X, then Y, then Z

	parent   BodyID
	children []BodyID

	dirty       bool
	local       math3d.Mat4
	absolute    math3d.Mat4
	absRotation math3d.Vec3

	outline    uint32
	hasOutline bool
}

// Scene owns every body and the parent/child links between them.
type Scene struct {
	bodies []body
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// NewBody adds a root body owning m. Its local bounding box is computed once
// here, so the mesh must not change afterwards.
func (s *Scene) NewBody(m *mesh.Mesh, name string) (BodyID, error) {
	if m == nil {
		return NoBody, fmt.Errorf("new body %q: %w", name, ErrNilMesh)
	}
	s.bodies = append(s.bodies, body{
		name:     name,
		mesh:     m,
		bounds:   m.Bounds(),
		parent:   NoBody,
		dirty:    true,
		local:    math3d.Identity(),
		absolute: math3d.Identity(),
	})
	return BodyID(len(s.bodies) - 1), nil
}

// Len returns the number of bodies.
func (s *Scene) Len() int {
	return len(s.bodies)
}

// Contains reports whether id addresses a body of s.
func (s *Scene) Contains(id BodyID) bool {
	return id >= 0 && int(id) < len(s.bodies)
}

// Bodies returns every body ID in creation order.
func (s *Scene) Bodies() []BodyID {
	ids := make([]BodyID, len(s.bodies))
	for i := range ids {
		ids[i] = BodyID(i)
	}
	return ids
}

// Roots returns the bodies without a parent, in creation order.
func (s *Scene) Roots() []BodyID {
	var roots []BodyID
	for i := range s.bodies {
		if s.bodies[i].parent == NoBody {
			roots = append(roots, BodyID(i))
		}
	}
	return roots
}

// AddChild attaches child below parent, detaching it from any previous
// parent. Attaching a body below itself or one of its descendants fails
// with ErrCycle.
func (s *Scene) AddChild(parent, child BodyID) error {
	if !s.Contains(parent) || !s.Contains(child) {
		return fmt.Errorf("add child %d to %d: %w", child, parent, ErrInvalidBody)
	}
	for p := parent; p != NoBody; p = s.bodies[p].parent {
		if p == child {
			return fmt.Errorf("add child %d to %d: %w", child, parent, ErrCycle)
		}
	}

	if old := s.bodies[child].parent; old != NoBody {
		s.unlink(old, child)
	}
	s.bodies[parent].children = append(s.bodies[parent].children, child)
	s.bodies[child].parent = parent
	s.markDirty(child)
	return nil
}

// RemoveChild detaches child from parent; the child becomes a root.
func (s *Scene) RemoveChild(parent, child BodyID) error {
	if !s.Contains(parent) || !s.Contains(child) {
		return fmt.Errorf("remove child %d from %d: %w", child, parent, ErrInvalidBody)
	}
	if !s.unlink(parent, child) {
		return fmt.Errorf("remove child %d from %d: %w", child, parent, ErrNotFound)
	}
	s.bodies[child].parent = NoBody
	s.markDirty(child)
	return nil
}

func (s *Scene) unlink(parent, child BodyID) bool {
	kids := s.bodies[parent].children
	for i, c := range kids {
		if c == child {
			s.bodies[parent].children = append(kids[:i], kids[i+1:]...)
			return true
		}
	}
	return false
}

// markDirty flags id and its whole subtree for recomputation.
func (s *Scene) markDirty(id BodyID) {
	s.bodies[id].dirty = true
	for _, c := range s.bodies[id].children {
		s.markDirty(c)
	}
}

// SetPosition sets the translation relative to the parent.
func (s *Scene) SetPosition(id BodyID, x, y, z float64) error {
	if !s.Contains(id) {
		return fmt.Errorf("set position of %d: %w", id, ErrInvalidBody)
	}
	s.bodies[id].position = math3d.V3(x, y, z)
	s.markDirty(id)
	return nil
}

// SetRotation sets the Euler angles (radians) relative to the parent. The
// rotation applies X first, then Y, then Z.
func (s *Scene) SetRotation(id BodyID, x, y, z float64) error {
	if !s.Contains(id) {
		return fmt.Errorf("set rotation of %d: %w", id, ErrInvalidBody)
	}
	s.bodies[id].rotation = math3d.V3(x, y, z)
	s.markDirty(id)
	return nil
}

// Position returns the translation relative to the parent.
func (s *Scene) Position(id BodyID) math3d.Vec3 {
	return s.bodies[id].position
}

// Rotation returns the Euler angles relative to the parent.
func (s *Scene) Rotation(id BodyID) math3d.Vec3 {
	return s.bodies[id].rotation
}

// update brings the cached matrices of id current, parent first.
func (s *Scene) update(id BodyID) {
	b := &s.bodies[id]
	var parentAbs math3d.Mat4
	var parentRot math3d.Vec3
	hasParent := b.parent != NoBody
	if hasParent {
		s.update(b.parent)
		p := &s.bodies[b.parent]
		parentAbs, parentRot = p.absolute, p.absRotation
	}
	if !b.dirty {
		return
	}

	b.local = math3d.Translate(b.position).
		Mul(math3d.RotateEuler(b.rotation.X, b.rotation.Y, b.rotation.Z))
	if hasParent {
		b.absolute = parentAbs.Mul(b.local)
		b.absRotation = parentRot.Add(b.rotation)
	} else {
		b.absolute = b.local
		b.absRotation = b.rotation
	}
	b.dirty = false
}

// LocalMatrix returns translation · rotation relative to the parent.
func (s *Scene) LocalMatrix(id BodyID) math3d.Mat4 {
	s.update(id)
	return s.bodies[id].local
}

// AbsoluteMatrix returns the model-to-world matrix: the parent's absolute
// matrix times the local matrix, or the local matrix for a root.
func (s *Scene) AbsoluteMatrix(id BodyID) math3d.Mat4 {
	s.update(id)
	return s.bodies[id].absolute
}

// AbsolutePosition returns the world-space origin of the body.
func (s *Scene) AbsolutePosition(id BodyID) math3d.Vec3 {
	return s.AbsoluteMatrix(id).Translation()
}

// AbsoluteRotation returns the sum of the Euler angles along the path from
// the root. It is exact only while every ancestor rotates about one axis.
func (s *Scene) AbsoluteRotation(id BodyID) math3d.Vec3 {
	s.update(id)
	return s.bodies[id].absRotation
}

// Parent returns the parent of id, or NoBody for a root.
func (s *Scene) Parent(id BodyID) BodyID {
	return s.bodies[id].parent
}

// Children returns a copy of the direct children of id.
func (s *Scene) Children(id BodyID) []BodyID {
	return append([]BodyID(nil), s.bodies[id].children...)
}

// Mesh returns the mesh owned by id. Callers must not modify it.
func (s *Scene) Mesh(id BodyID) *mesh.Mesh {
	return s.bodies[id].mesh
}

// Bounds returns the model-space bounding box of the body's mesh.
func (s *Scene) Bounds(id BodyID) mesh.BoundingBox {
	return s.bodies[id].bounds
}

// Name returns the debug name given to NewBody.
func (s *Scene) Name(id BodyID) string {
	return s.bodies[id].name
}

// SetOutlineColor makes the renderer trace the body's triangle edges in argb.
func (s *Scene) SetOutlineColor(id BodyID, argb uint32) {
	s.bodies[id].outline = argb
	s.bodies[id].hasOutline = true
}

// ClearOutlineColor disables outline drawing for id.
func (s *Scene) ClearOutlineColor(id BodyID) {
	s.bodies[id].outline = 0
	s.bodies[id].hasOutline = false
}

// OutlineColor returns the outline color and whether one is set.
func (s *Scene) OutlineColor(id BodyID) (uint32, bool) {
	return s.bodies[id].outline, s.bodies[id].hasOutline
}

// WorldMesh returns a copy of the body's mesh in world space.
func (s *Scene) WorldMesh(id BodyID) *mesh.Mesh {
	abs := s.AbsoluteMatrix(id)
	m := s.bodies[id].mesh.Clone()
	m.Transform(abs, abs.InverseTranspose())
	return m
}

// Visit calls fn for root and its descendants in pre-order. Returning false
// from fn skips the subtree below that body.
func (s *Scene) Visit(root BodyID, fn func(BodyID) bool) {
	if !fn(root) {
		return
	}
	for _, c := range s.bodies[root].children {
		s.Visit(c, fn)
	}
}

// Subtree returns root and all its descendants in pre-order.
func (s *Scene) Subtree(root BodyID) []BodyID {
	var ids []BodyID
	s.Visit(root, func(id BodyID) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}
