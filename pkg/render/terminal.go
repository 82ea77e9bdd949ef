package render

import (
	"image/color"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < r.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(x, topY)),
					Bg: rgbaToColor(r.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a terminal screen that can flush drawn cells.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalSurface presents frames as half-block cells on a terminal.
type TerminalSurface struct {
	mu      sync.Mutex
	display Display
}

// NewTerminalSurface creates a surface drawing on d.
func NewTerminalSurface(d Display) *TerminalSurface {
	return &TerminalSurface{display: d}
}

// CellSize converts a terminal size in cells to framebuffer pixels.
func CellSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Present implements Surface.
func (s *TerminalSurface) Present(fb *Framebuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb.Draw(s.display, s.display.Bounds())
	return s.display.Display()
}
