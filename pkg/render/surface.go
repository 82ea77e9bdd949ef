package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
)

// Surface receives finished frames.
type Surface interface {
	Present(fb *Framebuffer) error
}

// ImageSurface keeps a copy of the most recent frame.
type ImageSurface struct {
	mu     sync.Mutex
	img    *image.RGBA
	frames int
}

// NewImageSurface creates an empty image surface.
func NewImageSurface() *ImageSurface {
	return &ImageSurface{}
}

// Present implements Surface.
func (s *ImageSurface) Present(fb *Framebuffer) error {
	img := fb.ToImage()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.frames++
	return nil
}

// Image returns the last presented frame, or nil before the first.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Frames returns how many frames were presented.
func (s *ImageSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// SavePNG writes the last presented frame to path.
func (s *ImageSurface) SavePNG(path string) error {
	img := s.Image()
	if img == nil {
		return fmt.Errorf("save %s: no frame presented", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
