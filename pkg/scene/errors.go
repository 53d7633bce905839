package scene

import (
	"errors"

	"github.com/taigrr/robosim/pkg/mesh"
)

var (
	// ErrNilMesh is returned when a body is created without a mesh.
	ErrNilMesh = mesh.ErrNilMesh
	// ErrNotFound is returned when removing a body that is not a child.
	ErrNotFound = errors.New("body is not a child")
	// ErrInvalidBody is returned for IDs that do not belong to the scene.
	ErrInvalidBody = errors.New("invalid body id")
	// ErrCycle is returned when a reparent would make a body its own ancestor.
	ErrCycle = errors.New("body hierarchy cycle")
)
