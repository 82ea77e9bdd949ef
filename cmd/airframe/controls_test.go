package main

import (
	"math"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func key(r rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: r, Text: string(r)}
}

func TestControlsActions(t *testing.T) {
	tests := []struct {
		name string
		ev   uv.Event
		want action
	}{
		{"escape quits", uv.KeyPressEvent{Code: uv.KeyEscape}, actionQuit},
		{"ctrl+c quits", uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}, actionQuit},
		{"resize", uv.WindowSizeEvent{Width: 120, Height: 40}, actionResize},
		{"torque key", key('w'), actionNone},
		{"unbound key", key('z'), actionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newControls(30, 80, 24)
			if got := c.handle(tt.ev); got != tt.want {
				t.Errorf("handle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControlsResizeTracksSize(t *testing.T) {
	c := newControls(30, 80, 24)
	c.handle(uv.WindowSizeEvent{Width: 120, Height: 40})

	w, h := c.size()
	if w != 120 || h != 40 {
		t.Errorf("size() = %dx%d, want 120x40", w, h)
	}
}

func TestControlsMouseDrag(t *testing.T) {
	c := newControls(30, 80, 24)

	// Motion without a press does nothing
	c.handle(uv.MouseMotionEvent{X: 50, Y: 50})
	if c.rotation.Pitch.Velocity != 0 || c.rotation.Yaw.Velocity != 0 {
		t.Fatal("motion without press applied an impulse")
	}

	c.handle(uv.MouseClickEvent{X: 10, Y: 10})
	c.handle(uv.MouseMotionEvent{X: 20, Y: 15})

	if !approxEqual(c.rotation.Pitch.Velocity, 5*dragScale) {
		t.Errorf("pitch velocity = %v, want %v", c.rotation.Pitch.Velocity, 5*dragScale)
	}
	if !approxEqual(c.rotation.Yaw.Velocity, 10*dragScale) {
		t.Errorf("yaw velocity = %v, want %v", c.rotation.Yaw.Velocity, 10*dragScale)
	}

	c.handle(uv.MouseReleaseEvent{X: 20, Y: 15})
	c.handle(uv.MouseMotionEvent{X: 40, Y: 40})
	if !approxEqual(c.rotation.Yaw.Velocity, 10*dragScale) {
		t.Errorf("motion after release changed yaw velocity to %v", c.rotation.Yaw.Velocity)
	}
}

func TestControlsTorque(t *testing.T) {
	tests := []struct {
		name             string
		key              rune
		pitch, yaw, roll float64
	}{
		{"w pitches up", 'w', -torqueStrength, 0, 0},
		{"s pitches down", 's', torqueStrength, 0, 0},
		{"a yaws left", 'a', 0, -torqueStrength, 0},
		{"d yaws right", 'd', 0, torqueStrength, 0},
		{"q rolls left", 'q', 0, 0, -torqueStrength},
		{"e rolls right", 'e', 0, 0, torqueStrength},
	}

	const dt = 0.05
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newControls(30, 80, 24)
			c.handle(key(tt.key))

			pitch, yaw, roll := c.step(dt)
			if !approxEqual(pitch, tt.pitch*dt) || !approxEqual(yaw, tt.yaw*dt) || !approxEqual(roll, tt.roll*dt) {
				t.Errorf("step() = %v, %v, %v; want %v, %v, %v",
					pitch, yaw, roll, tt.pitch*dt, tt.yaw*dt, tt.roll*dt)
			}
		})
	}
}

func TestControlsTorqueDecaysAndReleases(t *testing.T) {
	c := newControls(30, 80, 24)
	c.handle(key('d'))
	c.step(0.01)

	if !approxEqual(c.torque.yaw, torqueStrength*torqueDecay) {
		t.Errorf("torque after one frame = %v, want %v", c.torque.yaw, torqueStrength*torqueDecay)
	}

	c.handle(uv.KeyReleaseEvent{Code: 'd', Text: "d"})
	if c.torque.yaw != 0 {
		t.Errorf("torque after release = %v, want 0", c.torque.yaw)
	}
}

func TestControlsFrameDeltaClamped(t *testing.T) {
	c := newControls(30, 80, 24)
	c.handle(key('w'))

	pitch, _, _ := c.step(2.0)
	if !approxEqual(pitch, -torqueStrength*maxFrameDelta) {
		t.Errorf("pitch after long frame = %v, want %v", pitch, -torqueStrength*maxFrameDelta)
	}
}

func TestControlsReset(t *testing.T) {
	c := newControls(30, 80, 24)
	c.handle(key('w'))
	for range 5 {
		c.step(0.05)
	}

	c.handle(key('r'))
	pitch, yaw, roll := c.rotation.Angles()
	if pitch != 0 || yaw != 0 || roll != 0 {
		t.Errorf("angles after reset = %v, %v, %v", pitch, yaw, roll)
	}
	if c.torque.pitch != 0 {
		t.Errorf("torque after reset = %v, want 0", c.torque.pitch)
	}
}

func TestControlsToggleHUD(t *testing.T) {
	c := newControls(30, 80, 24)
	if !c.hudVisible() {
		t.Fatal("HUD should start visible")
	}
	c.handle(key('?'))
	if c.hudVisible() {
		t.Error("HUD still visible after toggle")
	}
}
