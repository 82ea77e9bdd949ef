// Package render draws scenes into framebuffers. It defines the backend
// contract shared by the software rasterizer in this package and the
// hardware backend in glrender, plus the surfaces frames are presented on.
package render

import (
	"math"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/models"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector (for lighting)
	Color    Color       // Lit vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Projector supplies the transform from world space to clip space.
type Projector interface {
	ViewProjectionMatrix() math3d.Mat4
}

// Shader lights a vertex: it maps a world-space normal and a base color to
// the color written at that vertex.
type Shader func(normal math3d.Vec3, base [4]float64) Color

// MeshRenderer is the geometry the rasterizer draws.
// This interface allows drawing meshes without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// MaterialMeshRenderer extends MeshRenderer with per-face colors.
type MaterialMeshRenderer interface {
	MeshRenderer
	FaceColor(i int) [4]float64
}

// CornerNormalMeshRenderer extends MeshRenderer with per-face-corner normals,
// which keep hard edges flat where vertices are shared.
type CornerNormalMeshRenderer interface {
	MeshRenderer
	CornerNormal(face, corner int) math3d.Vec3
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	projector              Projector
	fb                     *Framebuffer
	zbuffer                []float64    // Depth buffer (1D array, row-major)
	frustum                Frustum      // Cached frustum planes
	frustumDirty           bool         // Whether frustum needs recalculation
	CullingStats           CullingStats // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(projector Projector, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		projector:    projector,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// SetTarget switches the framebuffer drawn into and resizes the depth buffer.
func (r *Rasterizer) SetTarget(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// SetProjector switches the projection and invalidates the cached frustum.
func (r *Rasterizer) SetProjector(p Projector) {
	r.projector = p
	r.frustumDirty = true
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	for i := range r.zbuffer {
		r.zbuffer[i] = math.MaxFloat64
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// GetFrustum returns the current frustum (updating if needed).
func (r *Rasterizer) GetFrustum() Frustum {
	if r.frustumDirty {
		r.frustum = NewFrustumFromMatrix(r.projector.ViewProjectionMatrix())
		r.frustumDirty = false
	}
	return r.frustum
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// CullMesh reports whether a mesh lies entirely outside the frustum,
// updating CullingStats. The world sphere test runs first; meshes with
// bounds get a tighter box test.
func (r *Rasterizer) CullMesh(mesh MeshRenderer, transform math3d.Mat4, sphere models.BoundingSphere) bool {
	r.CullingStats.MeshesTested++
	frustum := r.GetFrustum()

	visible := frustum.IntersectsSphere(sphere)
	if visible {
		if bounded, ok := mesh.(BoundedMeshRenderer); ok {
			lo, hi := bounded.GetBounds()
			visible = frustum.IntersectsBox(lo, hi, transform)
		}
	}

	if !visible {
		r.CullingStats.MeshesCulled++
		return true
	}
	return false
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (NDC z)
	W     float64 // Clip-space w
	Color Color
}

func (r *Rasterizer) project(viewProj math3d.Mat4, v Vertex) screenVertex {
	clip := viewProj.MulVec4(math3d.Point(v.Position))

	var ndc math3d.Vec3
	if clip.W != 0 {
		ndc = clip.NDC()
	}

	// Y is flipped: NDC up is screen row 0
	return screenVertex{
		X:     (ndc.X + 1) * 0.5 * float64(r.Width()),
		Y:     (1 - ndc.Y) * 0.5 * float64(r.Height()),
		Z:     ndc.Z,
		W:     clip.W,
		Color: v.Color,
	}
}

// edgeCoeffs returns A, B, C for the edge function edge(x,y) = A*x + B*y + C.
// Positive = left of edge, negative = right of edge, zero = on edge.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// DrawTriangleGouraud rasterizes a triangle with Gouraud shading: vertex
// colors are interpolated across the triangle using edge functions with
// incremental updates.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle) {
	if r.fb == nil {
		return
	}

	viewProj := r.projector.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i := range 3 {
		sv[i] = r.project(viewProj, tri.V[i])
	}

	// Triangles touching the camera plane are dropped rather than clipped.
	if sv[0].W <= 0 || sv[1].W <= 0 || sv[2].W <= 0 {
		return
	}

	// Backface culling
	edge1X := sv[1].X - sv[0].X
	edge1Y := sv[1].Y - sv[0].Y
	edge2X := sv[2].X - sv[0].X
	edge2Y := sv[2].Y - sv[0].Y
	cross := edge1X*edge2Y - edge1Y*edge2X
	if cross == 0 {
		return
	}
	if cross < 0 {
		if !r.DisableBackfaceCulling {
			return
		}
		// Flip to keep edge functions positive inside.
		sv[1], sv[2] = sv[2], sv[1]
		cross = -cross
	}

	// Bounding box (clamped to screen)
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	// cross is 2 * signed area
	invArea := 1.0 / cross

	// Interpolated channels are rounded so flat faces keep their exact color.
	r0, g0, b0, a0 := float64(sv[0].Color.R), float64(sv[0].Color.G), float64(sv[0].Color.B), float64(sv[0].Color.A)
	r1, g1, b1, a1 := float64(sv[1].Color.R), float64(sv[1].Color.G), float64(sv[1].Color.B), float64(sv[1].Color.A)
	r2, g2, b2, a2 := float64(sv[2].Color.R), float64(sv[2].Color.G), float64(sv[2].Color.B), float64(sv[2].Color.A)

	// Evaluate edge functions at the first pixel center
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5

	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	width := r.Width()
	zbuffer := r.zbuffer
	pixels := r.fb.Pixels

	for y := minY; y <= maxY; y++ {
		w0 := w0Row
		w1 := w1Row
		w2 := w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z

				// No bounds check: x and y are within the clamped box
				idx := rowOffset + x
				if z >= -1 && z < zbuffer[idx] {
					zbuffer[idx] = z
					pixels[idx] = Color{
						R: uint8(r0*bc0 + r1*bc1 + r2*bc2 + 0.5),
						G: uint8(g0*bc0 + g1*bc1 + g2*bc2 + 0.5),
						B: uint8(b0*bc0 + b1*bc1 + b2*bc2 + 0.5),
						A: uint8(a0*bc0 + a1*bc1 + a2*bc2 + 0.5),
					}
				}
			}

			// Step in X direction
			w0 += A0
			w1 += A1
			w2 += A2
		}

		// Step in Y direction
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// DrawMesh renders every face of mesh with the given model transform. Face
// colors come from the mesh when it implements MaterialMeshRenderer and are
// lit per vertex by shader.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, shader Shader) {
	colored, hasColors := mesh.(MaterialMeshRenderer)
	cornered, hasCorners := mesh.(CornerNormalMeshRenderer)
	base := [4]float64{1, 1, 1, 1}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		if hasColors {
			base = colored.FaceColor(i)
		}

		var tri Triangle
		for j, idx := range face {
			p, n, _ := mesh.GetVertex(idx)
			if hasCorners {
				n = cornered.CornerNormal(i, j)
			}
			wn := transform.MulVec3Dir(n).Normalize()
			tri.V[j] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   wn,
				Color:    shader(wn, base),
			}
		}

		r.DrawTriangleGouraud(tri)
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
