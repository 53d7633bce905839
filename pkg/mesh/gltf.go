package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/robosim/pkg/math3d"
)

// ErrNoGeometry is returned when a glTF document holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader converts the triangle primitives of a glTF/GLB document into a
// single mesh.
type GLTFLoader struct {
	// Color is stamped on every vertex; glTF materials are not imported.
	Color uint32
	// SmoothNormals recomputes normals when the file carries none.
	SmoothNormals bool
}

// NewGLTFLoader creates a loader that paints the model light gray.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		Color:         LightGray,
		SmoothNormals: true,
	}
}

// LoadGLB loads a glTF or GLB file with the default loader and the given color.
func LoadGLB(path string, argb uint32) (*Mesh, error) {
	l := NewGLTFLoader()
	l.Color = argb
	return l.Load(path)
}

// Load reads path and returns the merged mesh of all triangle primitives.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc)
}

// FromDocument converts an already decoded document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Mesh, error) {
	out := &Mesh{}
	hasNormals := true

	for _, gm := range doc.Meshes {
		ok, err := l.appendMesh(doc, gm, out)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", gm.Name, err)
		}
		hasNormals = hasNormals && ok
	}

	if len(out.Indices) == 0 {
		return nil, ErrNoGeometry
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if !hasNormals && l.SmoothNormals {
		out.CalculateSmoothNormals()
	}
	return out, nil
}

// appendMesh adds every triangle primitive of gm to out. It reports whether
// all of them carried normals.
func (l *GLTFLoader) appendMesh(doc *gltf.Document, gm *gltf.Mesh, out *Mesh) (bool, error) {
	hasNormals := true

	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			hasNormals = false
		}

		base := len(out.Vertices)
		for i, p := range positions {
			v := Vertex{Position: p, Color: l.Color}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			out.Vertices = append(out.Vertices, v)
		}

		// glTF winds front faces counter-clockwise, same as Mesh.
		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				out.Indices = append(out.Indices, base+indices[i], base+indices[i+1], base+indices[i+2])
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				out.Indices = append(out.Indices, base+i, base+i+1, base+i+2)
			}
		}
	}
	return hasNormals, nil
}

// accessorBytes returns the buffer backing an accessor together with the start
// offset and element stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if acc.BufferView == nil {
		return nil, 0, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, 0, errors.New("buffer has no data")
	}

	start := view.ByteOffset + acc.ByteOffset
	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+elemSize > len(data) {
		return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d bytes)", len(data))
	}
	return data, start, stride, nil
}

func readVec3Accessor(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", acc.Type, acc.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, acc.Count)
	for i := range acc.Count {
		off := start + i*stride
		out[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", acc.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range acc.Count {
		off := start + i*stride
		switch size {
		case 1:
			out[i] = int(data[off])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		default:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
