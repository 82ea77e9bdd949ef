package main

import (
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

const (
	torqueStrength = 3.0
	dragScale      = 0.03
	torqueDecay    = 0.9
	maxFrameDelta  = 0.1
)

// action is what the host does after an input event.
type action int

const (
	actionNone action = iota
	actionQuit
	actionResize
)

// controls turns terminal input into model rotation. The event and frame
// goroutines share it, so every method takes the lock.
type controls struct {
	mu sync.Mutex

	rotation *RotationState
	torque   struct{ pitch, yaw, roll float64 }

	mouseDown              bool
	lastMouseX, lastMouseY int

	showHUD       bool
	width, height int
}

func newControls(fps, width, height int) *controls {
	return &controls{
		rotation: NewRotationState(fps),
		showHUD:  true,
		width:    width,
		height:   height,
	}
}

// handle applies one terminal event.
func (c *controls) handle(ev uv.Event) action {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		c.width, c.height = ev.Width, ev.Height
		return actionResize

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
			return actionQuit
		case ev.MatchString("r"):
			c.rotation.Reset()
			c.torque.pitch, c.torque.yaw, c.torque.roll = 0, 0, 0
		case ev.MatchString("w", "up"):
			c.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			c.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			c.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			c.torque.yaw = torqueStrength
		case ev.MatchString("q"):
			c.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			c.torque.roll = torqueStrength
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			c.showHUD = !c.showHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
			c.torque.pitch = 0
		case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
			c.torque.yaw = 0
		case ev.MatchString("q"), ev.MatchString("e"):
			c.torque.roll = 0
		}

	case uv.MouseClickEvent:
		c.mouseDown = true
		c.lastMouseX, c.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		c.mouseDown = false

	case uv.MouseMotionEvent:
		if c.mouseDown {
			dx := ev.X - c.lastMouseX
			dy := ev.Y - c.lastMouseY
			c.rotation.ApplyImpulse(float64(dy)*dragScale, float64(dx)*dragScale, 0)
			c.lastMouseX, c.lastMouseY = ev.X, ev.Y
		}
	}
	return actionNone
}

// step advances the rotation by dt seconds and returns the new angles.
func (c *controls) step(dt float64) (pitch, yaw, roll float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dt = min(dt, maxFrameDelta)

	// Key release events are unreliable, so held torque fades on its own.
	c.rotation.ApplyImpulse(c.torque.pitch*dt, c.torque.yaw*dt, c.torque.roll*dt)
	c.torque.pitch *= torqueDecay
	c.torque.yaw *= torqueDecay
	c.torque.roll *= torqueDecay

	c.rotation.Update()
	return c.rotation.Angles()
}

// size returns the last known terminal size in cells.
func (c *controls) size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *controls) hudVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showHUD
}
