package main

import (
	"math"
	"testing"
)

func TestRotationAxisUpdate(t *testing.T) {
	a := NewRotationAxis(30)
	a.Velocity = 1

	a.Update()
	if a.Position != 1 {
		t.Errorf("Position after first update = %v, want 1", a.Position)
	}
	if a.Velocity >= 1 {
		t.Errorf("Velocity did not decay: %v", a.Velocity)
	}

	for range 300 {
		a.Update()
	}
	if math.Abs(a.Velocity) > 1e-3 {
		t.Errorf("Velocity after settling = %v, want ~0", a.Velocity)
	}
	if a.Position <= 1 {
		t.Errorf("Position should keep gliding past 1, got %v", a.Position)
	}
	if a.Position > 100 {
		t.Errorf("Position ran away: %v", a.Position)
	}
}

func TestRotationStateImpulseAndReset(t *testing.T) {
	r := NewRotationState(30)
	r.ApplyImpulse(0.5, -0.25, 0.125)
	r.Update()

	pitch, yaw, roll := r.Angles()
	if pitch != 0.5 || yaw != -0.25 || roll != 0.125 {
		t.Errorf("Angles() = %v, %v, %v; want 0.5, -0.25, 0.125", pitch, yaw, roll)
	}

	r.Reset()
	pitch, yaw, roll = r.Angles()
	if pitch != 0 || yaw != 0 || roll != 0 {
		t.Errorf("Angles() after Reset = %v, %v, %v; want zeros", pitch, yaw, roll)
	}
	if r.Pitch.Velocity != 0 {
		t.Errorf("Velocity after Reset = %v, want 0", r.Pitch.Velocity)
	}

	// Reset keeps a working spring
	r.ApplyImpulse(1, 0, 0)
	r.Update()
	if r.Pitch.Velocity >= 1 {
		t.Errorf("spring lost after Reset, velocity %v", r.Pitch.Velocity)
	}
}

func BenchmarkRotationStateUpdate(b *testing.B) {
	r := NewRotationState(30)
	for b.Loop() {
		r.ApplyImpulse(0.01, 0.01, 0.01)
		r.Update()
	}
}
