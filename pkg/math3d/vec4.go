package math3d

// Vec4 is a homogeneous point, as produced by a projection matrix.
type Vec4 struct {
	X, Y, Z, W float64
}

// Point lifts a position into homogeneous coordinates with W = 1.
func Point(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// InFront reports whether a clip-space point lies in front of the camera.
func (v Vec4) InFront() bool {
	return v.W > 0
}

// NDC divides by W. Points with W == 0 are returned unchanged.
func (v Vec4) NDC() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}
