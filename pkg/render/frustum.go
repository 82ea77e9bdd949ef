package render

import (
	"math"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/scene"
)

// plane is n·p + d = 0 with n pointing into the frustum.
type plane struct {
	n math3d.Vec3
	d float64
}

func (p plane) distance(v math3d.Vec3) float64 {
	return p.n.Dot(v) + p.d
}

// Frustum holds the six clip planes of a camera: left, right, bottom, top,
// near and far, in that order.
type Frustum struct {
	planes [6]plane
}

// NewFrustumFromMatrix extracts the clip planes of a view-projection matrix
// (Gribb/Hartmann). Plane 2i is row3 + row i, plane 2i+1 is row3 - row i.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Column-major: row i, column j is m[i+4*j].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}

	var f Frustum
	w, ww := row(3)
	for i := range 3 {
		r, rw := row(i)
		f.planes[2*i] = normalizePlane(w.Add(r), ww+rw)
		f.planes[2*i+1] = normalizePlane(w.Sub(r), ww-rw)
	}
	return f
}

func normalizePlane(n math3d.Vec3, d float64) plane {
	l := n.Len()
	if l == 0 {
		return plane{n: n, d: d}
	}
	return plane{n: n.Scale(1 / l), d: d / l}
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.planes {
		if pl.distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of a world-space sphere is
// inside the frustum. A sphere touching a plane from outside counts.
func (f Frustum) IntersectsSphere(s models.BoundingSphere) bool {
	for _, pl := range f.planes {
		if pl.distance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the local box [lo, hi] placed by transform
// may be visible. The box is re-bounded in world space, then tested with
// the corner furthest along each plane normal.
func (f Frustum) IntersectsBox(lo, hi math3d.Vec3, transform math3d.Mat4) bool {
	wlo := math3d.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	whi := math3d.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for i := range 8 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		p := transform.MulVec3(c)
		wlo = wlo.Min(p)
		whi = whi.Max(p)
	}

	for _, pl := range f.planes {
		far := wlo
		if pl.n.X >= 0 {
			far.X = whi.X
		}
		if pl.n.Y >= 0 {
			far.Y = whi.Y
		}
		if pl.n.Z >= 0 {
			far.Z = whi.Z
		}
		if pl.distance(far) < 0 {
			return false
		}
	}
	return true
}

// Visible reports whether m should be drawn. Meshes with FrustumCulled
// unset are always drawn.
func (f Frustum) Visible(m *scene.Mesh) bool {
	if !m.FrustumCulled {
		return true
	}
	return f.IntersectsSphere(m.WorldBoundingSphere())
}
