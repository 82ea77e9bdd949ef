package render

import (
	"math"
	"slices"

	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/scene"
)

// SoftwareBackend rasterizes scenes on the CPU.
type SoftwareBackend struct {
	opts       ContextOptions
	fb         *Framebuffer
	rasterizer *Rasterizer
	disposed   bool

	// Background is used when the context has no alpha and the scene sets
	// no background of its own.
	Background Color
}

// NewSoftwareBackend creates a 1x1 software backend; call SetSize before use.
func NewSoftwareBackend(opts ContextOptions) *SoftwareBackend {
	fb := NewFramebuffer(1, 1)
	return &SoftwareBackend{
		opts:       opts,
		fb:         fb,
		rasterizer: NewRasterizer(nil, fb),
		Background: ColorBlack,
	}
}

// Kind implements Backend.
func (b *SoftwareBackend) Kind() Kind { return KindSoftware }

// SetSize implements Backend.
func (b *SoftwareBackend) SetSize(width, height int) error {
	if b.disposed {
		return ErrBackendDisposed
	}
	if err := checkSize(width, height); err != nil {
		return err
	}
	if width == b.fb.Width && height == b.fb.Height {
		return nil
	}
	b.fb = NewFramebuffer(width, height)
	b.rasterizer.SetTarget(b.fb)
	return nil
}

// Stats returns the culling statistics of the last frame.
func (b *SoftwareBackend) Stats() CullingStats {
	return b.rasterizer.CullingStats
}

// Render implements Backend.
func (b *SoftwareBackend) Render(s *scene.Scene, cam *scene.PerspectiveCamera) (*Framebuffer, error) {
	if b.disposed {
		return nil, ErrBackendDisposed
	}

	if s.AutoUpdate {
		s.UpdateMatrixWorld(false)
	}
	if cam.Parent() == nil {
		cam.UpdateMatrixWorld(false)
	}

	b.fb.Clear(b.clearColor(s))

	r := b.rasterizer
	r.SetProjector(cam)
	r.ClearDepth()
	r.ResetCullingStats()

	shader := LambertShader(s.Lighting())

	meshes := s.Meshes()
	slices.SortStableFunc(meshes, func(a, c *scene.Mesh) int {
		return a.RenderOrder - c.RenderOrder
	})

	for _, m := range meshes {
		if m.FrustumCulled && r.CullMesh(m.Geometry, m.MatrixWorld, m.WorldBoundingSphere()) {
			continue
		}
		r.CullingStats.MeshesDrawn++
		r.DrawMesh(m.Geometry, m.MatrixWorld, shader)
	}

	return b.fb, nil
}

func (b *SoftwareBackend) clearColor(s *scene.Scene) Color {
	switch {
	case b.opts.Alpha:
		return ColorTransparent
	case s.Background != nil:
		return FloatColor(s.Background.R, s.Background.G, s.Background.B, 1)
	default:
		return b.Background
	}
}

// Dispose implements Backend.
func (b *SoftwareBackend) Dispose() error {
	if b.disposed {
		return nil
	}
	b.disposed = true
	b.fb = nil
	b.rasterizer.SetTarget(nil)
	return nil
}

// LambertShader lights vertices with the scene's ambient term plus a
// diffuse term per directional light.
func LambertShader(l scene.Lighting) Shader {
	return func(n math3d.Vec3, base [4]float64) Color {
		light := l.Ambient
		for _, d := range l.Directional {
			ndotl := math.Max(0, n.Dot(d.Direction))
			light.R += d.Radiance.R * ndotl
			light.G += d.Radiance.G * ndotl
			light.B += d.Radiance.B * ndotl
		}
		return FloatColor(base[0]*light.R, base[1]*light.G, base[2]*light.B, base[3])
	}
}
