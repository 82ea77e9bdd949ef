// Package glrender is the hardware render backend. It draws through an
// OpenGL 4.1 core context owned by a hidden SDL2 window into an offscreen
// framebuffer and reads the result back into a render.Framebuffer.
//
// Every GL call runs on one goroutine locked to its OS thread.
package glrender

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/taigrr/airframe/pkg/render"
)

// Prober checks for hardware support by creating a throwaway context.
var Prober render.Prober = render.ProberFunc(Probe)

// Probe creates and destroys a hidden 1x1 GL context. A nil error means the
// hardware backend can be used.
func Probe() error {
	t := startThread()
	defer t.stop()

	return t.do(func() error {
		c, err := createContext(1, 1, render.DefaultContextOptions())
		if err != nil {
			return err
		}
		c.destroy()
		return nil
	})
}

// Register adds the hardware backend to f.
func Register(f render.Factory) {
	f.Register(render.KindHardware, func(opts render.ContextOptions) (render.Backend, error) {
		b, err := New(opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

// thread serializes calls onto a single locked OS thread.
type thread struct {
	calls chan func()
}

func startThread() *thread {
	t := &thread{calls: make(chan func())}
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		for f := range t.calls {
			f()
		}
	}()
	return t
}

func (t *thread) do(f func() error) error {
	errc := make(chan error, 1)
	t.calls <- func() { errc <- f() }
	return <-errc
}

func (t *thread) stop() {
	close(t.calls)
}

// glContext is a hidden window with a current GL context.
type glContext struct {
	window *sdl.Window
	ctx    sdl.GLContext
}

func createContext(width, height int, opts render.ContextOptions) (*glContext, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// 4.1 core is the highest profile available everywhere we run
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if opts.Alpha {
		sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)
	}

	window, err := sdl.CreateWindow(
		"airframe",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(width),
		int32(height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	ctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(ctx)
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	return &glContext{window: window, ctx: ctx}, nil
}

func (c *glContext) destroy() {
	if c.ctx != nil {
		sdl.GLDeleteContext(c.ctx)
		c.ctx = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
}
