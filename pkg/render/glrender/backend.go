package glrender

import (
	"fmt"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/airframe/pkg/models"
	"github.com/taigrr/airframe/pkg/render"
	"github.com/taigrr/airframe/pkg/scene"
)

// Backend renders through OpenGL. It implements render.Backend.
type Backend struct {
	opts    render.ContextOptions
	thread  *thread
	ctx     *glContext
	program *program
	target  *target
	meshes  map[*models.Mesh]*meshBuffers

	fb       *render.Framebuffer
	pixels   []byte
	disposed bool

	// Background is the clear color when the context has no alpha and the
	// scene sets no background.
	Background render.Color
}

// New creates a hardware backend with a 1x1 target; call SetSize before use.
func New(opts render.ContextOptions) (*Backend, error) {
	b := &Backend{
		opts:       opts,
		thread:     startThread(),
		meshes:     make(map[*models.Mesh]*meshBuffers),
		fb:         render.NewFramebuffer(1, 1),
		pixels:     make([]byte, 4),
		Background: render.ColorBlack,
	}

	err := b.thread.do(func() error {
		ctx, err := createContext(1, 1, opts)
		if err != nil {
			return err
		}
		b.ctx = ctx

		if b.program, err = newProgram(opts.Precision); err != nil {
			return err
		}

		var samples int32
		if opts.Antialias {
			samples = antialiasSamples
		}
		b.target, err = newTarget(1, 1, samples)
		return err
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("hardware backend: %w", err)
	}
	return b, nil
}

// Kind implements render.Backend.
func (b *Backend) Kind() render.Kind { return render.KindHardware }

// SetSize implements render.Backend.
func (b *Backend) SetSize(width, height int) error {
	if b.disposed {
		return render.ErrBackendDisposed
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	if width == b.fb.Width && height == b.fb.Height {
		return nil
	}

	if err := b.thread.do(func() error {
		return b.target.resize(int32(width), int32(height))
	}); err != nil {
		return err
	}
	b.fb = render.NewFramebuffer(width, height)
	b.pixels = make([]byte, width*height*4)
	return nil
}

// Render implements render.Backend.
func (b *Backend) Render(s *scene.Scene, cam *scene.PerspectiveCamera) (*render.Framebuffer, error) {
	if b.disposed {
		return nil, render.ErrBackendDisposed
	}

	if s.AutoUpdate {
		s.UpdateMatrixWorld(false)
	}
	if cam.Parent() == nil {
		cam.UpdateMatrixWorld(false)
	}

	meshes := s.Meshes()
	slices.SortStableFunc(meshes, func(a, c *scene.Mesh) int {
		return a.RenderOrder - c.RenderOrder
	})

	viewProj := cam.ViewProjectionMatrix()
	frustum := render.NewFrustumFromMatrix(viewProj)
	lights := packLights(s.Lighting())
	bg := b.clearColor(s)

	err := b.thread.do(func() error {
		b.target.bind()

		gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, float32(bg.A)/255)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		// Loaders emit clockwise front faces
		gl.Enable(gl.CULL_FACE)
		gl.FrontFace(gl.CW)
		gl.CullFace(gl.BACK)

		gl.UseProgram(b.program.id)
		vp := viewProj.Float32()
		gl.UniformMatrix4fv(b.program.viewProj, 1, false, &vp[0])
		gl.Uniform3fv(b.program.ambient, 1, &lights.ambient[0])
		gl.Uniform1i(b.program.lightCount, lights.count)
		gl.Uniform3fv(b.program.lightDir, maxLights, &lights.dirs[0])
		gl.Uniform3fv(b.program.lightColor, maxLights, &lights.colors[0])

		for _, m := range meshes {
			if !frustum.Visible(m) {
				continue
			}

			buf := b.buffers(m.Geometry)
			if buf.count == 0 {
				continue
			}
			model := m.MatrixWorld.Float32()
			gl.UniformMatrix4fv(b.program.model, 1, false, &model[0])
			gl.BindVertexArray(buf.vao)
			gl.DrawArrays(gl.TRIANGLES, 0, buf.count)
		}
		gl.BindVertexArray(0)

		b.target.readPixels(b.pixels)
		if code := gl.GetError(); code != gl.NO_ERROR {
			return fmt.Errorf("gl error 0x%x", code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.fb.LoadBottomUp(b.pixels)
	return b.fb, nil
}

// buffers returns the GPU buffers for m, uploading on first use.
func (b *Backend) buffers(m *models.Mesh) *meshBuffers {
	if buf, ok := b.meshes[m]; ok {
		return buf
	}
	buf := uploadMesh(m)
	b.meshes[m] = buf
	return buf
}

func (b *Backend) clearColor(s *scene.Scene) render.Color {
	switch {
	case b.opts.Alpha:
		return render.ColorTransparent
	case s.Background != nil:
		return render.FloatColor(s.Background.R, s.Background.G, s.Background.B, 1)
	default:
		return b.Background
	}
}

// Dispose implements render.Backend. It deletes every GL object, the context
// and the window, then stops the GL thread.
func (b *Backend) Dispose() error {
	if b.disposed {
		return nil
	}
	b.disposed = true
	b.release()
	return nil
}

func (b *Backend) release() {
	if b.thread == nil {
		return
	}
	_ = b.thread.do(func() error {
		for m, buf := range b.meshes {
			buf.delete()
			delete(b.meshes, m)
		}
		if b.program != nil {
			b.program.delete()
		}
		if b.target != nil {
			b.target.destroy()
		}
		if b.ctx != nil {
			b.ctx.destroy()
			b.ctx = nil
		}
		return nil
	})
	b.thread.stop()
	b.thread = nil
}
