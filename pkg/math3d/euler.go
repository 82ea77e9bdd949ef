package math3d

import "math"

// Euler holds rotation angles in radians applied in X, then Y, then Z order
// (intrinsic), so the rotation matrix is Rx * Ry * Rz.
type Euler struct {
	X, Y, Z float64
}

// EulerFromMat4 extracts XYZ-order angles from the rotation part of m.
// m must be unscaled.
func EulerFromMat4(m Mat4) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	var e Euler
	e.Y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		// Gimbal lock: X and Z share an axis, fold everything into X.
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// EulerFromQuat extracts XYZ-order angles from q.
func EulerFromQuat(q Quat) Euler {
	return EulerFromMat4(q.Normalize().ToMat4())
}

// ToMat4 returns the rotation matrix Rx * Ry * Rz.
func (e Euler) ToMat4() Mat4 {
	return RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
