package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// antialiasSamples is the MSAA sample count used when antialiasing is on.
const antialiasSamples = 4

// target is an offscreen render target. With multisampling it draws into a
// multisampled framebuffer and resolves into the single-sampled one that
// pixels are read from.
type target struct {
	fbo, color, depth       uint32
	msFBO, msColor, msDepth uint32
	samples                 int32
	width, height           int32
}

func newTarget(width, height, samples int32) (*target, error) {
	t := &target{width: width, height: height, samples: samples}
	if err := t.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return t, nil
}

func (t *target) create() error {
	var err error
	t.fbo, t.color, t.depth, err = attachments(t.width, t.height, 0)
	if err != nil {
		t.destroy()
		return err
	}
	if t.samples > 0 {
		t.msFBO, t.msColor, t.msDepth, err = attachments(t.width, t.height, t.samples)
		if err != nil {
			t.destroy()
			return err
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

// attachments creates a framebuffer with color and depth renderbuffers.
func attachments(width, height, samples int32) (fbo, color, depth uint32, err error) {
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.GenRenderbuffers(1, &color)
	gl.BindRenderbuffer(gl.RENDERBUFFER, color)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.RGBA8, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, color)

	gl.GenRenderbuffers(1, &depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, depth)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.DEPTH_COMPONENT24, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fbo, color, depth, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fbo, color, depth, nil
}

// bind makes the target current for drawing.
func (t *target) bind() {
	if t.samples > 0 {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.msFBO)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	}
	gl.Viewport(0, 0, t.width, t.height)
}

// readPixels resolves multisampling if needed and reads RGBA rows bottom-up
// into dst, which must hold width*height*4 bytes.
func (t *target) readPixels(dst []byte) {
	if t.samples > 0 {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.msFBO)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, t.fbo)
		gl.BlitFramebuffer(0, 0, t.width, t.height, 0, 0, t.width, t.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (t *target) resize(width, height int32) error {
	if width == t.width && height == t.height {
		return nil
	}
	t.destroy()
	t.width, t.height = width, height
	return t.create()
}

func (t *target) destroy() {
	for _, fbo := range []*uint32{&t.fbo, &t.msFBO} {
		if *fbo != 0 {
			gl.DeleteFramebuffers(1, fbo)
			*fbo = 0
		}
	}
	for _, rbo := range []*uint32{&t.color, &t.depth, &t.msColor, &t.msDepth} {
		if *rbo != 0 {
			gl.DeleteRenderbuffers(1, rbo)
			*rbo = 0
		}
	}
}
