package math3d

import (
	"math"
	"testing"
)

func TestVec4Projection(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 1, 10)

	tests := []struct {
		name    string
		p       Vec3
		inFront bool
		ndc     Vec3
	}{
		{"on near plane", V3(0, 0, -1), true, V3(0, 0, -1)},
		{"on far plane", V3(0, 0, -10), true, V3(0, 0, 1)},
		{"right edge", V3(2, 0, -2), true, V3(1, 0, 1.0/9)},
		{"behind", V3(0, 0, 1), false, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := proj.MulVec4(Point(tt.p))
			if clip.InFront() != tt.inFront {
				t.Fatalf("InFront() = %v, want %v", clip.InFront(), tt.inFront)
			}
			if !tt.inFront {
				return
			}
			ndc := clip.NDC()
			if !ndc.ApproxEqual(tt.ndc, 1e-9) {
				t.Errorf("NDC() = %v, want %v", ndc, tt.ndc)
			}
		})
	}
}

func TestVec4NDCZeroW(t *testing.T) {
	v := Vec4{X: 1, Y: 2, Z: 3}
	if got := v.NDC(); got != V3(1, 2, 3) {
		t.Errorf("NDC() with W=0 = %v, want unchanged", got)
	}
}
