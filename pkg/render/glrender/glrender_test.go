package glrender

import (
	"strings"
	"testing"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/scene"
)

func TestShaderSourcesPrecision(t *testing.T) {
	tests := []struct {
		precision render.Precision
		want      string
	}{
		{render.PrecisionLow, "precision lowp float;"},
		{render.PrecisionMedium, "precision mediump float;"},
		{render.PrecisionHigh, "precision highp float;"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			vs, fs := shaderSources(tc.precision)
			if !strings.Contains(fs, tc.want) {
				t.Errorf("fragment shader missing %q", tc.want)
			}
			if !strings.HasPrefix(vs, "#version 410 core") || !strings.HasPrefix(fs, "#version 410 core") {
				t.Error("shaders should target GLSL 410 core")
			}
			if !strings.Contains(fs, "uLightDir[4]") {
				t.Error("fragment shader should size light arrays to maxLights")
			}
		})
	}
}

func TestPackVertices(t *testing.T) {
	m := models.NewMesh("tri")
	m.Vertices = []models.MeshVertex{
		{Position: math3d.V3(1, 2, 3), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(4, 5, 6), Normal: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(7, 8, 9), Normal: math3d.V3(1, 0, 0)},
	}
	m.Materials = []models.Material{{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}}}
	m.Faces = []models.Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{2, 1, 0}, Material: -1},
	}

	data := packVertices(m)
	if len(data) != 2*3*vertexStride {
		t.Fatalf("len = %d, want %d", len(data), 2*3*vertexStride)
	}

	first := data[:vertexStride]
	want := []float32{1, 2, 3, 0, 0, 1, 1, 0, 0, 1}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("first vertex[%d] = %v, want %v", i, first[i], want[i])
		}
	}

	// Second face starts at vertex 2 and uses the default material
	second := data[3*vertexStride : 4*vertexStride]
	if second[0] != 7 || second[6] != 0.8 {
		t.Errorf("second face first vertex = %v", second)
	}
}

func TestPackVerticesCornerNormals(t *testing.T) {
	m := models.NewMesh("edge")
	m.Vertices = []models.MeshVertex{
		{Position: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(0, 1, 0), Normal: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(1, 0, 0), Normal: math3d.V3(0, 1, 0)},
	}
	m.Faces = []models.Face{{
		V:        [3]int{0, 1, 2},
		Material: -1,
		Normals:  [3]math3d.Vec3{math3d.V3(0, 0, 1), {}, math3d.V3(0, 0, 1)},
	}}

	data := packVertices(m)

	tests := []struct {
		name   string
		corner int
		want   [3]float32
	}{
		{"corner normal", 0, [3]float32{0, 0, 1}},
		{"zero corner falls back to vertex", 1, [3]float32{0, 1, 0}},
		{"last corner normal", 2, [3]float32{0, 0, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := data[tc.corner*vertexStride : (tc.corner+1)*vertexStride]
			if got := [3]float32{v[3], v[4], v[5]}; got != tc.want {
				t.Errorf("normal = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPackLights(t *testing.T) {
	l := scene.Lighting{Ambient: scene.Color{R: 0.25, G: 0.5, B: 1}}
	for range maxLights + 2 {
		l.Directional = append(l.Directional, scene.DirectionalTerm{
			Direction: math3d.Up(),
			Radiance:  scene.Color{R: 1.5, G: 1.5, B: 1.5},
		})
	}

	u := packLights(l)
	if u.count != maxLights {
		t.Errorf("count = %d, want %d", u.count, maxLights)
	}
	if u.ambient != [3]float32{0.25, 0.5, 1} {
		t.Errorf("ambient = %v", u.ambient)
	}
	if u.dirs[1] != 1 || u.colors[maxLights*3-1] != 1.5 {
		t.Errorf("dirs = %v, colors = %v", u.dirs, u.colors)
	}
}

func TestRegister(t *testing.T) {
	f := render.NewFactory()
	Register(f)
	if _, ok := f[render.KindHardware]; !ok {
		t.Error("Register should add the hardware constructor")
	}
}
