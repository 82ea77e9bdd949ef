// Package models provides airframe mesh loading and representation.
package models

import (
	"math"

	"github.com/taigrr/airframe/pkg/math3d"
)

// Mesh represents a 3D mesh with vertices, faces, and materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding volumes (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
	Sphere    BoundingSphere
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)

	// Normals are per-corner normals. A zero corner uses the vertex normal.
	Normals [3]math3d.Vec3
}

// Material is a flat-colored surface description.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// BoundingSphere encloses every vertex of a mesh in local space.
type BoundingSphere struct {
	Center math3d.Vec3
	Radius float64
}

// DefaultMaterial is used for faces that reference no material.
var DefaultMaterial = Material{Name: "default", BaseColor: [4]float64{0.8, 0.8, 0.8, 1}}

// mergePrecision matches four decimal places of position.
const mergePrecision = 1e4

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// ComputeBoundingSphere recomputes the box and a sphere centered on it that
// contains every vertex. Culling relies on it being current.
func (m *Mesh) ComputeBoundingSphere() {
	m.CalculateBounds()
	center := m.Center()

	var maxSq float64
	for _, v := range m.Vertices {
		maxSq = math.Max(maxSq, v.Position.Sub(center).LenSq())
	}

	m.Sphere = BoundingSphere{Center: center, Radius: math.Sqrt(maxSq)}
}

// MergeVertices collapses vertices whose positions agree to four decimal
// places, remaps the faces and drops faces that became degenerate. Each face
// keeps the normals its corners had before the merge, so hard edges stay
// hard. It returns the number of vertices removed.
func (m *Mesh) MergeVertices() int {
	seen := make(map[[3]int64]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	unique := make([]MeshVertex, 0, len(m.Vertices))

	for i, v := range m.Vertices {
		key := [3]int64{
			int64(math.Round(v.Position.X * mergePrecision)),
			int64(math.Round(v.Position.Y * mergePrecision)),
			int64(math.Round(v.Position.Z * mergePrecision)),
		}
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		seen[key] = len(unique)
		remap[i] = len(unique)
		unique = append(unique, v)
	}

	faces := m.Faces[:0]
	for _, f := range m.Faces {
		for k, idx := range f.V {
			if f.Normals[k] == (math3d.Vec3{}) {
				f.Normals[k] = m.Vertices[idx].Normal
			}
		}
		a, b, c := remap[f.V[0]], remap[f.V[1]], remap[f.V[2]]
		if a == b || b == c || a == c {
			continue
		}
		f.V = [3]int{a, b, c}
		faces = append(faces, f)
	}

	removed := len(m.Vertices) - len(unique)
	m.Vertices = unique
	m.Faces = faces
	return removed
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// BufferBytes approximates the GPU footprint: float32 position, normal and
// UV per vertex plus uint32 indices.
func (m *Mesh) BufferBytes() int {
	return len(m.Vertices)*(3+3+2)*4 + len(m.Faces)*3*4
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// CalculateNormals computes face normals and assigns them to vertices.
// Shared vertices end up with the normal of the last face that uses them.
func (m *Mesh) CalculateNormals() {
	for i := range m.Faces {
		f := &m.Faces[i]
		normal := m.faceNormal(*f).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals for smooth shading.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		normal := m.faceNormal(f) // Don't normalize yet
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateFaceNormals sets every corner of every face to the face's flat
// normal, so shared vertices shade faceted.
func (m *Mesh) CalculateFaceNormals() {
	for i := range m.Faces {
		n := m.faceNormal(m.Faces[i]).Normalize()
		m.Faces[i].Normals = [3]math3d.Vec3{n, n, n}
	}
}

// CornerNormal returns the normal used to shade corner (0-2) of face i.
func (m *Mesh) CornerNormal(i, corner int) math3d.Vec3 {
	f := &m.Faces[i]
	if n := f.Normals[corner]; n != (math3d.Vec3{}) {
		return n
	}
	return m.Vertices[f.V[corner]].Normal
}

// faceNormal returns the unnormalized outward normal. Faces are stored
// clockwise as seen from the front.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v2.Sub(v0).Cross(v1.Sub(v0))
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// FaceColor returns the base color of face i, falling back to DefaultMaterial.
// Implements render.MaterialMeshRenderer interface.
func (m *Mesh) FaceColor(i int) [4]float64 {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.BaseColor
	}
	return DefaultMaterial.BaseColor
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
