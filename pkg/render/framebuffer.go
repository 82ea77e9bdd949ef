package render

import (
	"image"
	"image/color"
)

// Framebuffer is a row-major RGBA pixel grid with row 0 at the top. Both
// backends render into one, and surfaces consume it.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewFramebuffer allocates a width x height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

func (fb *Framebuffer) index(x, y int) (int, bool) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0, false
	}
	return y*fb.Width + x, true
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for n := 1; n < len(fb.Pixels); n *= 2 {
		copy(fb.Pixels[n:], fb.Pixels[:n])
	}
}

// SetPixel writes c at (x, y); writes outside the grid are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if i, ok := fb.index(x, y); ok {
		fb.Pixels[i] = c
	}
}

// GetPixel reads (x, y), or transparent black outside the grid.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if i, ok := fb.index(x, y); ok {
		return fb.Pixels[i]
	}
	return color.RGBA{}
}

// CountNot returns how many pixels differ from c.
func (fb *Framebuffer) CountNot(c color.RGBA) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != c {
			n++
		}
	}
	return n
}

// LoadBottomUp fills the framebuffer from tightly packed RGBA bytes whose
// first row is the bottom of the image, as glReadPixels returns them.
func (fb *Framebuffer) LoadBottomUp(pix []byte) {
	stride := fb.Width * 4
	for y := range fb.Height {
		src := pix[(fb.Height-1-y)*stride:][:stride]
		row := fb.Pixels[y*fb.Width:][:fb.Width]
		for x := range row {
			row[x] = color.RGBA{src[4*x], src[4*x+1], src[4*x+2], src[4*x+3]}
		}
	}
}

// ToImage copies the framebuffer into a new image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		img.Pix[4*i] = p.R
		img.Pix[4*i+1] = p.G
		img.Pix[4*i+2] = p.B
		img.Pix[4*i+3] = p.A
	}
	return img
}
