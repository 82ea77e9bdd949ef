package models

import (
	"fmt"
	"io"
	"path"

	gobj "github.com/flywave/go-obj"
	"github.com/taigrr/airframe/pkg/math3d"
)

// LoadOBJ reads a Wavefront OBJ stream. Polygons are fan-triangulated and
// every face corner becomes its own vertex; MergeVertices collapses them.
// Material names from usemtl are kept, colors stay at the default because
// material libraries are not resolved.
func LoadOBJ(r io.Reader, name string) (*Mesh, error) {
	reader := &gobj.ObjReader{}
	if err := reader.Read(r); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh := NewMesh(path.Base(name))
	materialIndex := make(map[string]int)

	for _, face := range reader.F {
		if len(face.Corners) < 3 {
			continue
		}

		material := -1
		if face.Material != "" {
			idx, ok := materialIndex[face.Material]
			if !ok {
				idx = len(mesh.Materials)
				materialIndex[face.Material] = idx
				mesh.Materials = append(mesh.Materials, Material{
					Name:      face.Material,
					BaseColor: DefaultMaterial.BaseColor,
				})
			}
			material = idx
		}

		for _, tri := range triangulateFace(face) {
			base := len(mesh.Vertices)
			for _, corner := range tri {
				v, err := objVertex(reader, corner)
				if err != nil {
					return nil, err
				}
				mesh.Vertices = append(mesh.Vertices, v)
			}
			// OBJ front faces are CCW; store CW.
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{base, base + 2, base + 1},
				Material: material,
			})
		}
	}

	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func objVertex(reader *gobj.ObjReader, corner gobj.FaceCorner) (MeshVertex, error) {
	if corner.VertexIndex < 0 || corner.VertexIndex >= len(reader.V) {
		return MeshVertex{}, fmt.Errorf("obj vertex index %d out of range", corner.VertexIndex)
	}

	p := reader.V[corner.VertexIndex]
	v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}

	if corner.TexCoordIndex >= 0 && corner.TexCoordIndex < len(reader.VT) {
		t := reader.VT[corner.TexCoordIndex]
		v.UV = math3d.V2(float64(t[0]), float64(t[1]))
	}
	if corner.NormalIndex >= 0 && corner.NormalIndex < len(reader.VN) {
		n := reader.VN[corner.NormalIndex]
		v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
	}
	return v, nil
}

// triangulateFace fans a convex polygon around its first corner.
func triangulateFace(face gobj.Face) [][3]gobj.FaceCorner {
	tris := make([][3]gobj.FaceCorner, 0, len(face.Corners)-2)
	for i := 1; i < len(face.Corners)-1; i++ {
		tris = append(tris, [3]gobj.FaceCorner{face.Corners[0], face.Corners[i], face.Corners[i+1]})
	}
	return tris
}
