package scene

import (
	"math"

	"github.com/taigrr/airframe/pkg/math3d"
)

// PerspectiveCamera projects the scene with a symmetric perspective frustum.
// Its view matrix is the inverse of its world matrix and is refreshed
// whenever the world matrix is.
type PerspectiveCamera struct {
	Object

	// Projection parameters
	FOV    float64 // Vertical field of view in radians
	Aspect float64 // Width / Height
	Near   float64 // Near clipping plane
	Far    float64 // Far clipping plane

	// Cached matrices
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewProjDirty  bool
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Object:     newObject("camera"),
		FOV:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
		viewMatrix: math3d.Identity(),
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection after FOV, Aspect, Near
// or Far changed.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projMatrix = math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
	c.viewProjDirty = true
}

// UpdateMatrixWorld implements Node and refreshes the view matrix.
func (c *PerspectiveCamera) UpdateMatrixWorld(force bool) {
	c.Object.UpdateMatrixWorld(force)
	c.viewMatrix = c.MatrixWorld.Inverse()
	c.viewProjDirty = true
}

// ViewMatrix returns the world-to-camera transform.
func (c *PerspectiveCamera) ViewMatrix() math3d.Mat4 {
	return c.viewMatrix
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *PerspectiveCamera) ProjectionMatrix() math3d.Mat4 {
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *PerspectiveCamera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *PerspectiveCamera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point(worldPos))
	if !clip.InFront() {
		return 0, 0, 0, false
	}

	ndc := clip.NDC()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
