package scenegraph

import (
	"github.com/Faultbox/roboview/pkg/math"
)

// Material describes surface appearance. Materials are shared freely
// between meshes; the renderer never mutates them.
type Material struct {
	Name        string
	Color       [4]float32 // RGBA, linear
	Translucent bool       // drawn in the blended pass without depth writes
}

// DefaultMaterial returns the fallback material used when a named lookup
// fails. Unlit-safe light gray.
func DefaultMaterial() *Material {
	return &Material{
		Name:  "default",
		Color: [4]float32{0.7, 0.7, 0.7, 1.0},
	}
}

// Mesh attaches drawable geometry to a node.
type Mesh struct {
	Geometry *Geometry
	Material *Material

	// MaterialName is the name embedded in the model document; the viewer
	// resolves it against the imported material table on mount.
	MaterialName string

	CastShadow    bool
	ReceiveShadow bool
	Pickable      bool

	releaser func()
}

// NewMesh creates a mesh with the default material and pick enabled.
func NewMesh(geo *Geometry, mat *Material) *Mesh {
	if mat == nil {
		mat = DefaultMaterial()
	}
	return &Mesh{
		Geometry:      geo,
		Material:      mat,
		ReceiveShadow: true,
		Pickable:      true,
	}
}

// SetReleaser installs the hook that frees the mesh's GPU resources.
// The renderer installs it on upload; any previously installed hook is
// invoked first so a re-upload cannot leak.
func (m *Mesh) SetReleaser(fn func()) {
	if m.releaser != nil {
		m.releaser()
	}
	m.releaser = fn
}

// Release frees the mesh's GPU resources. Idempotent; a no-op for meshes
// that were never uploaded.
func (m *Mesh) Release() {
	if m.releaser != nil {
		m.releaser()
		m.releaser = nil
	}
}

// Geometry is an immutable vertex/index buffer pair with a precomputed
// local bounding box. Positions and normals are tightly packed xyz floats.
type Geometry struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32 // empty means non-indexed triangle soup

	min, max math.Vec3
}

// NewGeometry wraps vertex data, computing the local bounding box.
func NewGeometry(positions, normals []float32, indices []uint32) *Geometry {
	g := &Geometry{
		Positions: positions,
		Normals:   normals,
		Indices:   indices,
	}
	b := EmptyBounds()
	for i := 0; i+2 < len(positions); i += 3 {
		b.Extend(math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]})
	}
	if !b.IsEmpty() {
		g.min, g.max = b.Min, b.Max
	}
	return g
}

// Bounds returns the local-space bounding box.
func (g *Geometry) Bounds() (min, max math.Vec3) {
	return g.min, g.max
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// IndexCount returns the number of indices to draw, falling back to the
// vertex count for non-indexed geometry.
func (g *Geometry) IndexCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices)
	}
	return g.VertexCount()
}
