package main

import (
	"fmt"
	"io"
	"time"
)

// HUD renders an overlay with the mixer name and frame rate
type HUD struct {
	out       io.Writer
	title     string
	backend   string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	now       func() time.Time
}

// NewHUD creates a new HUD
func NewHUD(out io.Writer, title, backend string) *HUD {
	return &HUD{
		out:     out,
		title:   title,
		backend: backend,
		fpsTime: time.Now(),
		now:     time.Now,
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	now := h.now()
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the most recent frame rate sample.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, visible bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Fprint(h.out, moveTo(1, 1)+clearLine)
	fmt.Fprint(h.out, moveTo(height, 1)+clearLine)

	if !visible {
		return
	}

	fmt.Fprintf(h.out, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Fprintf(h.out, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	backendCol := max(width-len(h.backend)-2, 1)
	fmt.Fprintf(h.out, "%s%s%s%s %s %s", moveTo(1, backendCol), bgBlack, fgCyan, bold, h.backend, reset)

	hint := "drag/WASDQE: rotate  R: reset  ?: HUD  Esc: quit"
	fmt.Fprintf(h.out, "%s%s%s %s %s", moveTo(height, 1), bgBlack, dim, hint, reset)
}
