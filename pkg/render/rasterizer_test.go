package render

import (
	"math"
	"testing"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/scene"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	vertices []struct {
		pos    math3d.Vec3
		normal math3d.Vec3
	}
	faces  [][3]int
	colors [][4]float64
}

func (m *mockMesh) VertexCount() int     { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.vertices[i]
	return v.pos, v.normal, math3d.Vec2{}
}

// coloredMesh adds per-face colors to mockMesh.
type coloredMesh struct{ *mockMesh }

func (m coloredMesh) FaceColor(i int) [4]float64 { return m.colors[i] }

// cornerMesh adds per-face-corner normals to mockMesh.
type cornerMesh struct {
	*mockMesh
	normals [][3]math3d.Vec3
}

func (m cornerMesh) CornerNormal(face, corner int) math3d.Vec3 { return m.normals[face][corner] }

// quadMesh returns a 10x10 quad at z=0 facing +Z, CW winding for front-facing.
func quadMesh() *mockMesh {
	return &mockMesh{
		vertices: []struct {
			pos    math3d.Vec3
			normal math3d.Vec3
		}{
			{math3d.V3(-5, -5, 0), math3d.V3(0, 0, 1)},
			{math3d.V3(5, -5, 0), math3d.V3(0, 0, 1)},
			{math3d.V3(5, 5, 0), math3d.V3(0, 0, 1)},
			{math3d.V3(-5, 5, 0), math3d.V3(0, 0, 1)},
		},
		faces: [][3]int{
			{0, 3, 2}, // CW: bottom-left, top-left, top-right
			{0, 2, 1}, // CW: bottom-left, top-right, bottom-right
		},
		colors: [][4]float64{{1, 0, 0, 1}, {0, 0, 1, 1}},
	}
}

// flatShader ignores lighting and returns the base color.
func flatShader(_ math3d.Vec3, base [4]float64) Color {
	return FloatColor(base[0], base[1], base[2], base[3])
}

// createTestRasterizer creates a rasterizer for testing.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := scene.NewPerspectiveCamera(math.Pi/3, float64(width)/float64(height), 0.1, 100)
	camera.Position = math3d.V3(0, 0, 10)
	camera.UpdateMatrixWorld(false)
	rasterizer := NewRasterizer(camera, fb)
	return rasterizer, fb
}

func frontTriangle(c0, c1, c2 Color) Triangle {
	return Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: c0},
			{Position: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, 1), Color: c1},
			{Position: math3d.V3(5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: c2},
		},
	}
}

func TestDrawTriangleGouraud(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	fb.Clear(ColorBlack)

	r.DrawTriangleGouraud(frontTriangle(RGB(255, 0, 0), RGB(0, 255, 0), RGB(0, 0, 255)))

	if fb.CountNot(ColorBlack) == 0 {
		t.Fatal("DrawTriangleGouraud should draw visible pixels")
	}

	// Interior pixels blend all three vertex colors
	c := fb.GetPixel(50, 60)
	if c.R == 0 || c.G == 0 || c.B == 0 {
		t.Errorf("center pixel %v should mix every vertex color", c)
	}
	if c.A != 255 {
		t.Errorf("center pixel alpha = %d, want 255", c.A)
	}
}

func TestDrawTriangleGouraud_BackfaceCulling(t *testing.T) {
	// CCW winding (opposite of front-facing CW)
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Color: ColorWhite},
			{Position: math3d.V3(5, -5, 0), Color: ColorWhite},
			{Position: math3d.V3(0, 5, 0), Color: ColorWhite},
		},
	}

	r, fb := createTestRasterizer(100, 100)
	fb.Clear(ColorBlack)
	r.DrawTriangleGouraud(tri)
	if n := fb.CountNot(ColorBlack); n > 0 {
		t.Errorf("Back-facing triangle should be culled, but got %d pixels", n)
	}

	r.DisableBackfaceCulling = true
	r.DrawTriangleGouraud(tri)
	if fb.CountNot(ColorBlack) == 0 {
		t.Error("Back-facing triangle should draw with culling disabled")
	}
}

func TestDrawTriangleGouraud_DepthTest(t *testing.T) {
	near := frontTriangle(RGB(255, 0, 0), RGB(255, 0, 0), RGB(255, 0, 0))
	far := frontTriangle(RGB(0, 0, 255), RGB(0, 0, 255), RGB(0, 0, 255))
	for i := range far.V {
		far.V[i].Position.Z = -5
	}

	orders := []struct {
		name  string
		first Triangle
		then  Triangle
	}{
		{"near first", near, far},
		{"far first", far, near},
	}

	for _, tc := range orders {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			fb.Clear(ColorBlack)
			r.DrawTriangleGouraud(tc.first)
			r.DrawTriangleGouraud(tc.then)

			if c := fb.GetPixel(50, 60); c != RGB(255, 0, 0) {
				t.Errorf("center pixel = %v, want the near triangle's red", c)
			}
		})
	}
}

func TestDrawTriangleBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(50, 50)
	fb.Clear(ColorBlack)

	tri := frontTriangle(ColorWhite, ColorWhite, ColorWhite)
	for i := range tri.V {
		tri.V[i].Position.Z = 20
	}
	r.DrawTriangleGouraud(tri)

	if n := fb.CountNot(ColorBlack); n > 0 {
		t.Errorf("triangle behind the camera drew %d pixels", n)
	}
}

func TestDrawMesh(t *testing.T) {
	t.Run("face colors", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		fb.Clear(ColorBlack)

		r.DrawMesh(coloredMesh{quadMesh()}, math3d.Identity(), flatShader)

		// Upper-left half is face 0 (red), lower-right is face 1 (blue)
		if c := fb.GetPixel(40, 40); c != RGB(255, 0, 0) {
			t.Errorf("upper-left pixel = %v, want red", c)
		}
		if c := fb.GetPixel(60, 60); c != RGB(0, 0, 255) {
			t.Errorf("lower-right pixel = %v, want blue", c)
		}
	})

	t.Run("no colors defaults to white", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		fb.Clear(ColorBlack)

		r.DrawMesh(quadMesh(), math3d.Identity(), flatShader)

		if c := fb.GetPixel(50, 50); c != ColorWhite {
			t.Errorf("center pixel = %v, want white", c)
		}
	})

	t.Run("transform moves mesh", func(t *testing.T) {
		r, fb := createTestRasterizer(100, 100)
		fb.Clear(ColorBlack)

		r.DrawMesh(quadMesh(), math3d.Translate(math3d.V3(0, 0, 50)), flatShader)

		if n := fb.CountNot(ColorBlack); n > 0 {
			t.Errorf("mesh moved behind the camera drew %d pixels", n)
		}
	})
}

func TestDrawMeshCornerNormals(t *testing.T) {
	shader := LambertShader(scene.Lighting{
		Ambient: scene.Color{R: 0.25, G: 0.25, B: 0.25},
		Directional: []scene.DirectionalTerm{
			{Direction: math3d.V3(0, 0, 1), Radiance: scene.Color{R: 0.5, G: 0.5, B: 0.5}},
		},
	})
	away := math3d.V3(0, 0, -1)
	toward := math3d.V3(0, 0, 1)

	tests := []struct {
		name         string
		mesh         MeshRenderer
		upper, lower uint8
	}{
		{"vertex normals", quadMesh(), 191, 191},
		{"corner normals override", cornerMesh{quadMesh(), [][3]math3d.Vec3{
			{away, away, away},
			{toward, toward, toward},
		}}, 64, 191},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			fb.Clear(ColorBlack)

			r.DrawMesh(tc.mesh, math3d.Identity(), shader)

			if c := fb.GetPixel(40, 40); c.R != tc.upper {
				t.Errorf("upper-left pixel = %v, want %d per channel", c, tc.upper)
			}
			if c := fb.GetPixel(60, 60); c.R != tc.lower {
				t.Errorf("lower-right pixel = %v, want %d per channel", c, tc.lower)
			}
		})
	}
}

func TestCullMesh(t *testing.T) {
	r, _ := createTestRasterizer(100, 100)

	tests := []struct {
		name   string
		center math3d.Vec3
		radius float64
		culled bool
	}{
		{"in view", math3d.V3(0, 0, 0), 1, false},
		{"behind camera", math3d.V3(0, 0, 50), 1, true},
		{"off to the side", math3d.V3(100, 0, 0), 1, true},
		{"large sphere reaching in", math3d.V3(100, 0, 0), 200, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.CullMesh(quadMesh(), math3d.Translate(tc.center), models.BoundingSphere{Center: tc.center, Radius: tc.radius})
			if got != tc.culled {
				t.Errorf("CullMesh = %v, want %v", got, tc.culled)
			}
		})
	}

	if r.CullingStats.MeshesTested != 4 || r.CullingStats.MeshesCulled != 2 {
		t.Errorf("stats = %+v, want 4 tested and 2 culled", r.CullingStats)
	}
}

func TestLambertShader(t *testing.T) {
	lighting := scene.Lighting{
		Ambient: scene.Color{R: 0.25, G: 0.25, B: 0.25},
		Directional: []scene.DirectionalTerm{
			{Direction: math3d.Up(), Radiance: scene.Color{R: 0.5, G: 0.5, B: 0.5}},
		},
	}
	shader := LambertShader(lighting)
	white := [4]float64{1, 1, 1, 1}

	tests := []struct {
		name   string
		normal math3d.Vec3
		want   uint8
	}{
		{"facing light", math3d.Up(), 191},
		{"perpendicular", math3d.UnitX(), 64},
		{"facing away", math3d.Up().Negate(), 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := shader(tc.normal, white)
			if c.R != tc.want || c.G != tc.want || c.B != tc.want || c.A != 255 {
				t.Errorf("shade = %v, want %d per channel", c, tc.want)
			}
		})
	}

	if c := shader(math3d.Up(), [4]float64{4, 4, 4, 1}); c != ColorWhite {
		t.Errorf("overexposed shade = %v, want clamped white", c)
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	r.setDepth(5, 5, 1.0)
	if r.getDepth(5, 5) != 1.0 {
		t.Error("setDepth/getDepth failed")
	}

	r.ClearDepth()
	if r.getDepth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	// Out of bounds should return MaxFloat64 and not panic
	if r.getDepth(-1, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}
	if r.getDepth(100, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}

	r.setDepth(-1, 0, 1.0) // Should not panic
	r.setDepth(100, 0, 1.0)
}

func TestMin3Max3(t *testing.T) {
	if min3(1, 2, 3) != 1 || min3(3, 1, 2) != 1 || min3(2, 3, 1) != 1 {
		t.Error("min3 failed")
	}
	if max3(1, 2, 3) != 3 || max3(3, 1, 2) != 3 || max3(2, 3, 1) != 3 {
		t.Error("max3 failed")
	}
}

func BenchmarkDrawTriangleGouraud(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	tri := frontTriangle(RGB(255, 100, 50), RGB(100, 50, 255), RGB(50, 255, 100))

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangleGouraud(tri)
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	mesh := coloredMesh{quadMesh()}
	shader := LambertShader(scene.Lighting{Ambient: scene.Color{R: 0.3, G: 0.3, B: 0.3}})

	for b.Loop() {
		r.ClearDepth()
		r.DrawMesh(mesh, math3d.Identity(), shader)
	}
}
