package scene

import (
	"render-engine/core"
	"render-engine/math"
)

// DrawMode selects the GL primitive topology a Mesh is drawn with.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines
	DrawPoints
)

// Mesh is a renderable piece of geometry plus the material it is drawn
// with. GPUData is populated lazily by the backend the first time the
// mesh is drawn (internal/opengl keeps a *GPUMesh there); Mesh itself
// never touches a graphics API.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	Material *Material
	DrawMode DrawMode

	// Local-space bounding box, used by ComputeAABB's fast path. Call
	// RecomputeLocalAABB after mutating Vertices.
	LocalAABB    AABB
	HasLocalAABB bool

	// Backend-owned GPU handle (e.g. *opengl.GPUMesh). Never read or
	// written outside the active graphics backend.
	GPUData any
}

// NewMesh creates an empty named mesh with the default material.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]core.Vertex, 0),
		Indices:  make([]uint32, 0),
		Material: DefaultMaterial(),
		DrawMode: DrawTriangles,
	}
}

// NewMeshFromData builds a mesh from raw vertex/index data and computes
// its local AABB immediately.
func NewMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Material: DefaultMaterial(),
		DrawMode: DrawTriangles,
	}
	m.RecomputeLocalAABB()
	return m
}

// CreateMeshFromData is NewMeshFromData under the name used by the
// primitive generators and model loaders.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return NewMeshFromData(name, vertices, indices)
}

// RecomputeLocalAABB scans Vertices and caches the local-space bounding
// box. Call after any in-place edit to Vertices.
func (m *Mesh) RecomputeLocalAABB() {
	if len(m.Vertices) == 0 {
		m.HasLocalAABB = false
		return
	}
	first := m.Vertices[0].Position
	box := AABB{Min: first, Max: first}
	for _, v := range m.Vertices[1:] {
		p := v.Position
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.Z < box.Min.Z {
			box.Min.Z = p.Z
		}
		if p.X > box.Max.X {
			box.Max.X = p.X
		}
		if p.Y > box.Max.Y {
			box.Max.Y = p.Y
		}
		if p.Z > box.Max.Z {
			box.Max.Z = p.Z
		}
	}
	m.LocalAABB = box
	m.HasLocalAABB = true
}

// Update runs any per-frame mesh-local animation. Meshes are static
// geometry today; the hook exists for future vertex/skinning animation.
func (m *Mesh) Update(deltaTime float32) {}

// Primitive generators build a backend-agnostic Mesh instead of
// uploading to a device directly; upload happens lazily the first time
// a renderer draws the mesh.

func CreateTriangle() *Mesh {
	vertices := []core.Vertex{
		{Position: math.Vec3{X: 0, Y: -0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 0.5, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: 0.5, Y: 0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 1, Y: 1}, Color: core.ColorWhite},
		{Position: math.Vec3{X: -0.5, Y: 0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 0, Y: 1}, Color: core.ColorWhite},
	}
	return NewMeshFromData("Triangle", vertices, []uint32{0, 1, 2})
}

func CreateQuad() *Mesh {
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -0.5, Y: -0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 0, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: 0.5, Y: -0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 1, Y: 0}, Color: core.ColorWhite},
		{Position: math.Vec3{X: 0.5, Y: 0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 1, Y: 1}, Color: core.ColorWhite},
		{Position: math.Vec3{X: -0.5, Y: 0.5, Z: 0}, Normal: math.Vec3{Z: 1}, UV: math.Vec2{X: 0, Y: 1}, Color: core.ColorWhite},
	}
	return NewMeshFromData("Quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

func CreateCube(size float32) *Mesh {
	s := size / 2
	type face struct {
		n       math.Vec3
		corners [4]math.Vec3
		uvs     [4]math.Vec2
	}
	faces := []face{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: s, Y: s, Z: -s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -s, Y: s, Z: -s}, {X: s, Y: s, Z: -s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: -s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: s, Y: -s, Z: s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: s, Y: s, Z: s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: s}, {X: -s, Y: s, Z: s}, {X: -s, Y: s, Z: -s}}, [4]math.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
	}

	var vertices []core.Vertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(vertices))
		for i := 0; i < 4; i++ {
			vertices = append(vertices, core.Vertex{Position: f.corners[i], Normal: f.n, UV: f.uvs[i], Color: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return NewMeshFromData("Cube", vertices, indices)
}
