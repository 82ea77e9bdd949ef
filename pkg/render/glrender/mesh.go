package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/scene"
)

// vertexStride is position(3) + normal(3) + color(4) floats.
const vertexStride = 10

// meshBuffers is the GPU copy of one geometry.
type meshBuffers struct {
	vao, vbo uint32
	count    int32
}

// packVertices expands faces into an interleaved, non-indexed vertex stream.
// Face colors and corner normals differ per face, so shared corners are repeated.
func packVertices(m *models.Mesh) []float32 {
	data := make([]float32, 0, len(m.Faces)*3*vertexStride)
	for i, f := range m.Faces {
		c := m.FaceColor(i)
		for k, idx := range f.V {
			v := m.Vertices[idx]
			n := m.CornerNormal(i, k)
			data = append(data,
				float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z),
				float32(n.X), float32(n.Y), float32(n.Z),
				float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3]),
			)
		}
	}
	return data
}

func uploadMesh(m *models.Mesh) *meshBuffers {
	data := packVertices(m)
	b := &meshBuffers{count: int32(len(data) / vertexStride)}
	if b.count == 0 {
		return b
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return b
}

func (b *meshBuffers) delete() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

// lightUniforms is scene lighting flattened for the shader.
type lightUniforms struct {
	ambient [3]float32
	count   int32
	dirs    [maxLights * 3]float32
	colors  [maxLights * 3]float32
}

// packLights flattens l, keeping the first maxLights directional lights.
func packLights(l scene.Lighting) lightUniforms {
	u := lightUniforms{
		ambient: [3]float32{float32(l.Ambient.R), float32(l.Ambient.G), float32(l.Ambient.B)},
	}
	for i, d := range l.Directional {
		if i == maxLights {
			break
		}
		copy(u.dirs[i*3:], []float32{float32(d.Direction.X), float32(d.Direction.Y), float32(d.Direction.Z)})
		copy(u.colors[i*3:], []float32{float32(d.Radiance.R), float32(d.Radiance.G), float32(d.Radiance.B)})
		u.count++
	}
	return u
}
