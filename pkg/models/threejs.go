package models

import (
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/taigrr/airframe/pkg/math3d"
)

// Face type bits of the three.js JSON model format, version 3.
const (
	faceQuad = 1 << iota
	faceMaterial
	faceUV // declared by the format but carries no index
	faceVertexUV
	faceNormal
	faceVertexNormal
	faceColor
	faceVertexColor
)

type threeModel struct {
	Metadata  threeMetadata   `json:"metadata"`
	Scale     float64         `json:"scale"`
	Materials []threeMaterial `json:"materials"`
	Vertices  []float64       `json:"vertices"`
	Normals   []float64       `json:"normals"`
	UVs       [][]float64     `json:"uvs"`
	Faces     []int           `json:"faces"`
	Data      *threeBufferGeo `json:"data"`
}

type threeMetadata struct {
	FormatVersion float64 `json:"formatVersion"`
	Type          string  `json:"type"`
}

type threeMaterial struct {
	DbgName      string    `json:"DbgName"`
	Name         string    `json:"name"`
	ColorDiffuse []float64 `json:"colorDiffuse"`
	Color        *uint32   `json:"color"`
	Opacity      *float64  `json:"opacity"`
}

type threeBufferGeo struct {
	Attributes map[string]threeAttribute `json:"attributes"`
	Index      *threeAttribute           `json:"index"`
}

type threeAttribute struct {
	ItemSize int       `json:"itemSize"`
	Array    []float64 `json:"array"`
}

// LoadThreeJSON decodes a three.js JSON model, either the version 3 model
// format or a BufferGeometry document.
func LoadThreeJSON(r io.Reader, name string) (*Mesh, error) {
	var doc threeModel
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode three.js json: %w", err)
	}

	mesh := NewMesh(path.Base(name))
	mesh.Materials = doc.materials()

	var err error
	if doc.Data != nil {
		err = parseBufferGeometry(doc.Data, mesh)
	} else {
		err = doc.parseFaces(mesh)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	// Without stored normals faces shade flat, as three.js computes them.
	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
		mesh.CalculateFaceNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func (doc *threeModel) materials() []Material {
	mats := make([]Material, 0, len(doc.Materials))
	for _, m := range doc.Materials {
		mat := Material{Name: m.Name, BaseColor: DefaultMaterial.BaseColor}
		if mat.Name == "" {
			mat.Name = m.DbgName
		}
		switch {
		case len(m.ColorDiffuse) >= 3:
			mat.BaseColor = [4]float64{m.ColorDiffuse[0], m.ColorDiffuse[1], m.ColorDiffuse[2], 1}
		case m.Color != nil:
			c := *m.Color
			mat.BaseColor = [4]float64{
				float64(c>>16&0xff) / 255,
				float64(c>>8&0xff) / 255,
				float64(c&0xff) / 255,
				1,
			}
		}
		if m.Opacity != nil {
			mat.BaseColor[3] = *m.Opacity
		}
		mats = append(mats, mat)
	}
	return mats
}

// parseFaces walks the packed face stream. Each face starts with a type
// bitmask followed by the indices the bits announce.
func (doc *threeModel) parseFaces(mesh *Mesh) error {
	scale := 1.0
	if doc.Scale != 0 {
		scale = 1 / doc.Scale
	}

	if len(doc.Vertices)%3 != 0 {
		return fmt.Errorf("vertex array length %d is not a multiple of 3", len(doc.Vertices))
	}
	for i := 0; i+2 < len(doc.Vertices); i += 3 {
		mesh.Vertices = append(mesh.Vertices, MeshVertex{
			Position: math3d.V3(doc.Vertices[i]*scale, doc.Vertices[i+1]*scale, doc.Vertices[i+2]*scale),
		})
	}

	uvLayers := 0
	for _, layer := range doc.UVs {
		if len(layer) > 0 {
			uvLayers++
		}
	}

	s := &faceStream{data: doc.Faces}
	for !s.done() {
		typ := s.next()

		corners := 3
		if typ&faceQuad != 0 {
			corners = 4
		}
		var idx [4]int
		for i := range corners {
			idx[i] = s.next()
		}

		material := -1
		if typ&faceMaterial != 0 {
			material = s.next()
		}

		if typ&faceVertexUV != 0 {
			for layer := range uvLayers {
				for i := range corners {
					uvIdx := s.next()
					if layer == 0 {
						doc.assignUV(mesh, idx[i], uvIdx)
					}
				}
			}
		}

		var normals [4]math3d.Vec3
		if typ&faceNormal != 0 {
			n := s.next()
			for i := range corners {
				normals[i] = doc.addNormal(mesh, idx[i], n)
			}
		}
		if typ&faceVertexNormal != 0 {
			for i := range corners {
				normals[i] = doc.addNormal(mesh, idx[i], s.next())
			}
		}

		// Colors are indexed but shading uses material colors only.
		if typ&faceColor != 0 {
			s.next()
		}
		if typ&faceVertexColor != 0 {
			s.skip(corners)
		}

		if s.err != nil {
			return s.err
		}
		for i := range corners {
			if idx[i] < 0 || idx[i] >= len(mesh.Vertices) {
				return fmt.Errorf("face vertex index %d out of range", idx[i])
			}
		}

		// Quads split into (a, b, d) and (b, c, d); stored clockwise.
		if corners == 4 {
			mesh.Faces = append(mesh.Faces,
				Face{
					V:        [3]int{idx[0], idx[3], idx[1]},
					Material: material,
					Normals:  [3]math3d.Vec3{normals[0], normals[3], normals[1]},
				},
				Face{
					V:        [3]int{idx[1], idx[3], idx[2]},
					Material: material,
					Normals:  [3]math3d.Vec3{normals[1], normals[3], normals[2]},
				},
			)
		} else {
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{idx[0], idx[2], idx[1]},
				Material: material,
				Normals:  [3]math3d.Vec3{normals[0], normals[2], normals[1]},
			})
		}
	}

	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = mesh.Vertices[i].Normal.Normalize()
	}
	return nil
}

func (doc *threeModel) assignUV(mesh *Mesh, vertex, uvIdx int) {
	layer := doc.UVs[0]
	if vertex < 0 || vertex >= len(mesh.Vertices) || uvIdx < 0 || uvIdx*2+1 >= len(layer) {
		return
	}
	mesh.Vertices[vertex].UV = math3d.V2(layer[uvIdx*2], layer[uvIdx*2+1])
}

// addNormal accumulates normal normalIdx onto a vertex and returns it
// normalized for the face corner. Bad indices yield the zero vector.
func (doc *threeModel) addNormal(mesh *Mesh, vertex, normalIdx int) math3d.Vec3 {
	if vertex < 0 || vertex >= len(mesh.Vertices) || normalIdx < 0 || normalIdx*3+2 >= len(doc.Normals) {
		return math3d.Vec3{}
	}
	n := math3d.V3(doc.Normals[normalIdx*3], doc.Normals[normalIdx*3+1], doc.Normals[normalIdx*3+2])
	mesh.Vertices[vertex].Normal = mesh.Vertices[vertex].Normal.Add(n)
	return n.Normalize()
}

type faceStream struct {
	data []int
	pos  int
	err  error
}

func (s *faceStream) done() bool {
	return s.err != nil || s.pos >= len(s.data)
}

func (s *faceStream) next() int {
	if s.pos >= len(s.data) {
		if s.err == nil {
			s.err = fmt.Errorf("face stream truncated at %d", s.pos)
		}
		return 0
	}
	v := s.data[s.pos]
	s.pos++
	return v
}

func (s *faceStream) skip(n int) {
	for range n {
		s.next()
	}
}

func parseBufferGeometry(geo *threeBufferGeo, mesh *Mesh) error {
	pos, ok := geo.Attributes["position"]
	if !ok {
		return fmt.Errorf("buffer geometry has no position attribute")
	}
	if len(pos.Array)%3 != 0 {
		return fmt.Errorf("position array length %d is not a multiple of 3", len(pos.Array))
	}

	normal := geo.Attributes["normal"]
	uv := geo.Attributes["uv"]

	count := len(pos.Array) / 3
	for i := range count {
		v := MeshVertex{Position: math3d.V3(pos.Array[i*3], pos.Array[i*3+1], pos.Array[i*3+2])}
		if i*3+2 < len(normal.Array) {
			v.Normal = math3d.V3(normal.Array[i*3], normal.Array[i*3+1], normal.Array[i*3+2])
		}
		if i*2+1 < len(uv.Array) {
			v.UV = math3d.V2(uv.Array[i*2], uv.Array[i*2+1])
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []int
	if geo.Index != nil {
		indices = make([]int, len(geo.Index.Array))
		for i, x := range geo.Index.Array {
			indices[i] = int(x)
		}
	} else {
		indices = make([]int, count)
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a < 0 || b < 0 || c < 0 || a >= count || b >= count || c >= count {
			return fmt.Errorf("index out of range at triangle %d", i/3)
		}
		mesh.Faces = append(mesh.Faces, Face{V: [3]int{a, c, b}, Material: -1})
	}
	return nil
}
