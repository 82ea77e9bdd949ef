package models

import (
	"math"
	"testing"

	"github.com/taigrr/airframe/pkg/math3d"
)

func meshFromPositions(positions []math3d.Vec3, faces ...[3]int) *Mesh {
	mesh := NewMesh("test")
	for _, p := range positions {
		mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: p})
	}
	for _, f := range faces {
		mesh.Faces = append(mesh.Faces, Face{V: f, Material: -1})
	}
	return mesh
}

// TestFaceMaterialIndex verifies per-face material assignment.
func TestFaceMaterialIndex(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: -1},
		{V: [3]int{9, 10, 11}, Material: 7},
	}

	if mesh.GetFaceMaterial(1) != 1 {
		t.Errorf("Face 1 should have material 1, got %d", mesh.GetFaceMaterial(1))
	}
	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil {
		t.Errorf("GetMaterial(-1) should return nil")
	}
	if mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}

	tests := []struct {
		face int
		want [4]float64
	}{
		{0, [4]float64{1, 0, 0, 1}},
		{1, [4]float64{0, 1, 0, 1}},
		{2, DefaultMaterial.BaseColor},
		{3, DefaultMaterial.BaseColor},
	}
	for _, tt := range tests {
		if got := mesh.FaceColor(tt.face); got != tt.want {
			t.Errorf("FaceColor(%d) = %v, want %v", tt.face, got, tt.want)
		}
	}
}

func TestMaterialCount(t *testing.T) {
	mesh := NewMesh("test")

	if mesh.MaterialCount() != 0 {
		t.Errorf("Empty mesh should have 0 materials")
	}

	mesh.Materials = make([]Material, 5)
	if mesh.MaterialCount() != 5 {
		t.Errorf("Mesh should have 5 materials, got %d", mesh.MaterialCount())
	}
}

func TestMergeVertices(t *testing.T) {
	t.Run("shared edge", func(t *testing.T) {
		mesh := meshFromPositions([]math3d.Vec3{
			math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0),
			math3d.V3(0, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0),
		}, [3]int{0, 1, 2}, [3]int{3, 4, 5})

		removed := mesh.MergeVertices()
		if removed != 2 {
			t.Errorf("Expected 2 vertices removed, got %d", removed)
		}
		if mesh.VertexCount() != 4 {
			t.Errorf("Expected 4 vertices, got %d", mesh.VertexCount())
		}
		if mesh.TriangleCount() != 2 {
			t.Fatalf("Expected 2 faces, got %d", mesh.TriangleCount())
		}
		if got := mesh.GetFace(1); got != [3]int{0, 2, 3} {
			t.Errorf("Second face remapped to %v, want [0 2 3]", got)
		}
	})

	t.Run("precision collapses near duplicates", func(t *testing.T) {
		mesh := meshFromPositions([]math3d.Vec3{
			math3d.V3(0, 0, 0), math3d.V3(0.000001, 0, 0), math3d.V3(1, 1, 0),
			math3d.V3(2, 0, 0),
		}, [3]int{0, 1, 2}, [3]int{0, 3, 2})

		removed := mesh.MergeVertices()
		if removed != 1 {
			t.Errorf("Expected 1 vertex removed, got %d", removed)
		}
		if mesh.TriangleCount() != 1 {
			t.Errorf("Degenerate face should be dropped, got %d faces", mesh.TriangleCount())
		}
	})

	t.Run("distinct vertices untouched", func(t *testing.T) {
		mesh := meshFromPositions([]math3d.Vec3{
			math3d.V3(0, 0, 0), math3d.V3(0.001, 0, 0), math3d.V3(0, 0.001, 0),
		}, [3]int{0, 1, 2})

		if removed := mesh.MergeVertices(); removed != 0 {
			t.Errorf("Expected no vertices removed, got %d", removed)
		}
		if mesh.TriangleCount() != 1 {
			t.Errorf("Expected 1 face, got %d", mesh.TriangleCount())
		}
	})
}

func TestComputeBoundingSphere(t *testing.T) {
	mesh := meshFromPositions([]math3d.Vec3{
		math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 2, 0),
	}, [3]int{0, 1, 2})

	mesh.ComputeBoundingSphere()

	if !mesh.Sphere.Center.ApproxEqual(math3d.V3(0, 1, 0), 1e-9) {
		t.Errorf("Sphere center = %v, want (0, 1, 0)", mesh.Sphere.Center)
	}
	if math.Abs(mesh.Sphere.Radius-math.Sqrt2) > 1e-9 {
		t.Errorf("Sphere radius = %f, want %f", mesh.Sphere.Radius, math.Sqrt2)
	}
	for i, v := range mesh.Vertices {
		if v.Position.Distance(mesh.Sphere.Center) > mesh.Sphere.Radius+1e-9 {
			t.Errorf("Vertex %d lies outside the bounding sphere", i)
		}
	}
}

func TestBufferBytes(t *testing.T) {
	mesh := meshFromPositions(make([]math3d.Vec3, 3), [3]int{0, 1, 2})
	if got := mesh.BufferBytes(); got != 108 {
		t.Errorf("BufferBytes() = %d, want 108", got)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	// Clockwise seen from +Z, so the front faces +Z
	mesh := meshFromPositions([]math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
	}, [3]int{0, 2, 1})

	if mesh.HasNormals() {
		t.Fatal("Fresh mesh should report no normals")
	}
	mesh.CalculateSmoothNormals()

	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
			t.Errorf("Vertex %d normal = %v, want (0, 0, 1)", i, v.Normal)
		}
	}
}

func TestCalculateFaceNormals(t *testing.T) {
	positions := []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
	}
	tests := []struct {
		name string
		face [3]int
		want math3d.Vec3
	}{
		{"clockwise from +Z faces +Z", [3]int{0, 2, 1}, math3d.V3(0, 0, 1)},
		{"counter-clockwise from +Z faces -Z", [3]int{0, 1, 2}, math3d.V3(0, 0, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := meshFromPositions(positions, tc.face)
			mesh.CalculateFaceNormals()
			for k := range 3 {
				if got := mesh.CornerNormal(0, k); !got.ApproxEqual(tc.want, 1e-9) {
					t.Errorf("corner %d normal = %v, want %v", k, got, tc.want)
				}
			}
		})
	}
}

func TestCornerNormal(t *testing.T) {
	mesh := meshFromPositions([]math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
	}, [3]int{0, 2, 1})
	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = math3d.V3(0, 1, 0)
	}
	mesh.Faces[0].Normals[1] = math3d.V3(1, 0, 0)

	tests := []struct {
		name   string
		corner int
		want   math3d.Vec3
	}{
		{"zero corner uses vertex normal", 0, math3d.V3(0, 1, 0)},
		{"set corner wins", 1, math3d.V3(1, 0, 0)},
		{"last corner uses vertex normal", 2, math3d.V3(0, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mesh.CornerNormal(0, tc.corner); got != tc.want {
				t.Errorf("CornerNormal(0, %d) = %v, want %v", tc.corner, got, tc.want)
			}
		})
	}
}

func TestMergeVerticesKeepsHardEdges(t *testing.T) {
	// Two faces of a box meeting along the X axis: one faces +Z, one -Y.
	positions := []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(0, 1, 0), math3d.V3(1, 0, 0),
		math3d.V3(0, 0, 0), math3d.V3(0, 0, 1), math3d.V3(1, 0, 0),
	}

	tests := []struct {
		name    string
		prepare func(m *Mesh)
	}{
		{"face normals", func(m *Mesh) { m.CalculateFaceNormals() }},
		{"flat vertex normals", func(m *Mesh) { m.CalculateNormals() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := meshFromPositions(positions, [3]int{0, 1, 2}, [3]int{3, 4, 5})
			tc.prepare(mesh)

			if removed := mesh.MergeVertices(); removed != 2 {
				t.Fatalf("Expected 2 vertices removed, got %d", removed)
			}
			if mesh.GetFace(0)[0] != mesh.GetFace(1)[0] {
				t.Fatal("Edge vertex should be shared after merging")
			}

			want := []math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(0, -1, 0)}
			for face, n := range want {
				for k := range 3 {
					if got := mesh.CornerNormal(face, k); !got.ApproxEqual(n, 1e-9) {
						t.Errorf("face %d corner %d normal = %v, want %v", face, k, got, n)
					}
				}
			}
		})
	}
}

func BenchmarkMergeVertices(b *testing.B) {
	positions := make([]math3d.Vec3, 0, 600)
	var faces [][3]int
	for i := range 100 {
		x := float64(i)
		positions = append(positions,
			math3d.V3(x, 0, 0), math3d.V3(x, 1, 0), math3d.V3(x+1, 0, 0),
			math3d.V3(x, 0, 0), math3d.V3(x, 0, 1), math3d.V3(x+1, 0, 0),
		)
		faces = append(faces, [3]int{i * 6, i*6 + 1, i*6 + 2}, [3]int{i*6 + 3, i*6 + 4, i*6 + 5})
	}

	for b.Loop() {
		mesh := meshFromPositions(positions, faces...)
		mesh.CalculateFaceNormals()
		mesh.MergeVertices()
	}
}
